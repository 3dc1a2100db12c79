package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

// RouteNode returns the state node that maps the chained action token on
// the final record to concrete dispatches. A missing record is terminal
// but non-fatal: the run returns a degraded summary without dispatching.
func RouteNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, format, err := extractRunKeys(s)
		if err != nil {
			return s, fmt.Errorf("route: %w", err)
		}

		record, err := rt.Records.Find(ctx, id)
		if err != nil {
			if errors.Is(err, transactions.ErrNotFound) {
				rt.Logger.Error("final record retrieval failed, skipping dispatch",
					"transaction_id", id,
				)
				s = s.Set(KeyNextStep, "processing completed, but final record retrieval failed for action routing")
				return s, nil
			}
			return s, fmt.Errorf("route: %w", err)
		}

		next := routeRecord(ctx, rt, format, record)
		s = s.Set(KeyNextStep, next)
		return s, nil
	})
}

func routeRecord(ctx context.Context, rt *Runtime, format transactions.Format, record *transactions.Record) string {
	id := record.TransactionID
	intent := record.Intent()
	action := record.ChainedAction

	rt.Logger.Info("routing chained action",
		"transaction_id", id,
		"chained_action", action,
	)

	switch action {
	case transactions.ActionEscalateCRM:
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindCRMEscalate, escalatePayload(record, intent))
		return "issue escalated to CRM"

	case transactions.ActionLogAndCloseCRM:
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindCRMLogAndClose, logAndClosePayload(record, intent))
		return "issue logged and closed in CRM"

	case transactions.ActionLogAlert:
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindRiskAlert, alertPayload(record, format, intent))
		return "risk alert logged for review"

	case transactions.ActionEscalateCRMAndRiskAlert:
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindCRMEscalate, escalatePayload(record, intent))
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindRiskAlert, threateningAlertPayload(record, format, intent))
		return "issue escalated to CRM and risk alert triggered"

	case transactions.ActionLogError:
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindRiskAlert, errorAlertPayload(record, format, intent))
		return "processing error logged for review"

	case transactions.ActionNone:
		return "classification and processing complete, no chained action triggered"

	default:
		rt.Logger.Warn("unrecognized chained action",
			"transaction_id", id,
			"chained_action", action,
		)
		rt.Dispatcher.Dispatch(ctx, id, transactions.ActionKindRiskAlert, map[string]any{
			"alert_type": "UNRECOGNIZED_CHAINED_ACTION",
			"details":    fmt.Sprintf("extractor proposed %q for intent %q", action, intent),
			"source":     "System",
		})
		return fmt.Sprintf("processing complete, but extractor proposed unrecognized action %q", action)
	}
}

func escalatePayload(record *transactions.Record, intent transactions.Intent) map[string]any {
	return map[string]any{
		"sender":        extractedField(record, "sender"),
		"issue_request": extractedField(record, "issue_request"),
		"tone":          extractedField(record, "tone"),
		"source_intent": intent,
	}
}

func logAndClosePayload(record *transactions.Record, intent transactions.Intent) map[string]any {
	return map[string]any{
		"sender":        extractedField(record, "sender"),
		"issue_request": extractedField(record, "issue_request"),
		"source_intent": intent,
	}
}

// alertPayload assembles the Log Alert risk payload: anomaly-derived alert
// type plus every piece of context the record holds, absent fields dropped.
func alertPayload(record *transactions.Record, format transactions.Format, intent transactions.Intent) map[string]any {
	alertType := formatToken(format) + "_FLAG"
	if len(record.AnomalyDetails) > 0 {
		alertType = formatToken(format) + "_ANOMALY"
	}

	details := map[string]any{
		"anomalies":     record.AnomalyDetails,
		"flags":         record.FlaggedConditions,
		"intent":        intent,
		"source_format": format,
	}
	if record.ExtractedData != nil {
		details["extracted_data"] = record.ExtractedData
	}
	if record.PDFAgentOutput != nil {
		details["pdf_agent_output"] = record.PDFAgentOutput
	}
	if record.InputPreview != "" {
		details["raw_input_preview"] = record.InputPreview
	}

	return map[string]any{
		"alert_type": alertType,
		"details":    marshalDetails(details),
		"source":     format,
		"intent":     intent,
	}
}

func threateningAlertPayload(record *transactions.Record, format transactions.Format, intent transactions.Intent) map[string]any {
	return map[string]any{
		"alert_type": "THREATENING_EMAIL",
		"details": fmt.Sprintf("threatening email from %s regarding: %s",
			extractedField(record, "sender"),
			extractedField(record, "issue_request"),
		),
		"source": format,
		"intent": intent,
	}
}

func errorAlertPayload(record *transactions.Record, format transactions.Format, intent transactions.Intent) map[string]any {
	errorMessage := record.ErrorMessage
	if errorMessage == "" {
		errorMessage = "unknown error during extractor processing"
	}

	details := map[string]any{
		"error_message": errorMessage,
		"source_format": format,
		"source_intent": intent,
	}
	if record.ExtractedData != nil {
		details["agent_output"] = record.ExtractedData
	} else if record.PDFAgentOutput != nil {
		details["agent_output"] = record.PDFAgentOutput
	}
	if len(record.FlaggedConditions) > 0 {
		details["flagged_conditions"] = record.FlaggedConditions
	}

	return map[string]any{
		"alert_type": formatToken(format) + "_PROCESSING_ERROR",
		"details":    marshalDetails(details),
		"source":     format,
		"intent":     intent,
	}
}

func extractedField(record *transactions.Record, key string) string {
	if record.ExtractedData != nil {
		if value, ok := record.ExtractedData[key].(string); ok && value != "" {
			return value
		}
	}
	return "N/A"
}

func formatToken(format transactions.Format) string {
	return strings.ToUpper(string(format))
}

func marshalDetails(details map[string]any) string {
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(data)
}
