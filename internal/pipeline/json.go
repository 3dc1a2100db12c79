package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/schemas"
	"github.com/JaimeStill/flowbit/internal/transactions"
)

// JSONNode returns a state node that parses the stored JSON payload,
// validates it against the intent's schema, and runs intent-specific
// business rules. Any anomaly routes to Log Alert; a clean document
// routes to none.
func JSONNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, _, err := extractRunKeys(s)
		if err != nil {
			return s, fmt.Errorf("json: %w", err)
		}

		record, err := rt.Records.Find(ctx, id)
		if err != nil {
			return s, fmt.Errorf("json: %w", err)
		}

		update := processJSON(record)

		if _, err := rt.Records.Merge(ctx, id, update); err != nil {
			return s, fmt.Errorf("json: %w", err)
		}

		rt.Logger.Info("json processed",
			"transaction_id", id,
			"chained_action", *update.ChainedAction,
			"anomalies", len(update.Anomalies),
		)

		return s, nil
	})
}

func processJSON(record *transactions.Record) transactions.Update {
	intent := record.Intent()

	if record.RawInputStr == "" {
		msg := "JSON content not found for processing"
		return transactions.Update{
			Anomalies: []transactions.Anomaly{{
				Type:    transactions.AnomalyMissingContent,
				Message: msg,
			}},
			ChainedAction: transactions.Ptr(transactions.ActionLogAlert),
			ErrorMessage:  transactions.Ptr(msg),
			Trace: []transactions.TraceEntry{{
				Agent: "JsonAgent", Step: "error", Details: msg,
			}},
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(record.RawInputStr), &data); err != nil {
		msg := fmt.Sprintf("invalid JSON format: %v", err)
		return transactions.Update{
			Anomalies: []transactions.Anomaly{{
				Type:    transactions.AnomalyJSONParseError,
				Message: err.Error(),
			}},
			ChainedAction: transactions.Ptr(transactions.ActionLogAlert),
			ErrorMessage:  transactions.Ptr(msg),
			Trace: []transactions.TraceEntry{{
				Agent: "JsonAgent", Step: "json_parse_error", Details: msg,
			}},
		}
	}

	trace := []transactions.TraceEntry{{
		Agent: "JsonAgent", Step: "json_parsed", Details: "successfully parsed JSON content",
	}}

	var anomalies []transactions.Anomaly

	if schemas.HasSchema(intent) {
		violations, err := schemas.Validate(intent, data)
		if err != nil {
			trace = append(trace, transactions.TraceEntry{
				Agent: "JsonAgent", Step: "schema_generic_error",
				Details: fmt.Sprintf("schema validation could not run: %v", err),
			})
		} else if len(violations) > 0 {
			anomalies = append(anomalies, violations...)
			trace = append(trace, transactions.TraceEntry{
				Agent: "JsonAgent", Step: "schema_validation_error",
				Details: fmt.Sprintf("schema validation failed for intent %q: %d violation(s)", intent, len(violations)),
			})
		} else {
			trace = append(trace, transactions.TraceEntry{
				Agent: "JsonAgent", Step: "schema_validation",
				Details: fmt.Sprintf("validated against %s schema: OK", intent),
			})
		}
	} else {
		trace = append(trace, transactions.TraceEntry{
			Agent: "JsonAgent", Step: "schema_validation_skipped",
			Details: fmt.Sprintf("no schema defined for intent %q", intent),
		})
	}

	// business rules only apply to documents with no prior anomalies
	if len(anomalies) == 0 {
		if ruleAnomalies := schemas.CheckRules(intent, data); len(ruleAnomalies) > 0 {
			anomalies = append(anomalies, ruleAnomalies...)
			trace = append(trace, transactions.TraceEntry{
				Agent: "JsonAgent", Step: "business_rule_check",
				Details: fmt.Sprintf("business rule anomalies detected for %s", intent),
			})
		}
	}

	action := transactions.ActionNone
	if len(anomalies) > 0 {
		action = transactions.ActionLogAlert
		trace = append(trace, transactions.TraceEntry{
			Agent: "JsonAgent", Step: "action_decision",
			Details: "anomalies detected, triggering Log Alert",
		})
	} else {
		trace = append(trace, transactions.TraceEntry{
			Agent: "JsonAgent", Step: "action_decision",
			Details: "JSON valid and no anomalies detected",
		})
	}

	return transactions.Update{
		ExtractedData: map[string]any{"parsed_json": data},
		Anomalies:     anomalies,
		ChainedAction: transactions.Ptr(action),
		Trace:         trace,
	}
}
