package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/inference"
	"github.com/JaimeStill/flowbit/internal/transactions"
	"github.com/JaimeStill/flowbit/pkg/formatting"
)

const emailAgentBodyBudget = 2000

type emailFields struct {
	Sender       string `json:"sender"`
	Urgency      string `json:"urgency"`
	IssueRequest string `json:"issue_request"`
	Tone         string `json:"tone"`
}

// EmailNode returns a state node that extracts structured fields from the
// stored email and decides the chained action from urgency and tone.
func EmailNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, _, err := extractRunKeys(s)
		if err != nil {
			return s, fmt.Errorf("email: %w", err)
		}

		record, err := rt.Records.Find(ctx, id)
		if err != nil {
			return s, fmt.Errorf("email: %w", err)
		}

		if record.RawInputStr == "" {
			msg := "email content not found for processing"
			if _, err := rt.Records.Merge(ctx, id, transactions.Update{
				ChainedAction: transactions.Ptr(transactions.ActionLogError),
				ErrorMessage:  transactions.Ptr(msg),
				Trace: []transactions.TraceEntry{{
					Agent: "EmailAgent", Step: "error", Details: msg,
				}},
			}); err != nil {
				return s, fmt.Errorf("email: %w", err)
			}
			return s, nil
		}

		update := processEmail(ctx, rt, record)

		if _, err := rt.Records.Merge(ctx, id, update); err != nil {
			return s, fmt.Errorf("email: %w", err)
		}

		rt.Logger.Info("email processed",
			"transaction_id", id,
			"chained_action", *update.ChainedAction,
		)

		return s, nil
	})
}

func processEmail(ctx context.Context, rt *Runtime, record *transactions.Record) transactions.Update {
	subject, body := parseEmailContent(record.RawInputStr)
	content := fmt.Sprintf("Subject: %s\n\n%s", subject, truncate(body, emailAgentBodyBudget))

	trace := []transactions.TraceEntry{{
		Agent:   "EmailAgent",
		Step:    "extracted_for_llm",
		Details: fmt.Sprintf("subject=%q body_length=%d", subject, len(body)),
	}}

	raw, err := rt.Extractor.Complete(ctx, inference.EmailExtractionPrompt(content))
	if err != nil {
		msg := fmt.Sprintf("email field extraction failed: %v", err)
		trace = append(trace, transactions.TraceEntry{
			Agent: "EmailAgent", Step: "llm_error", Details: msg,
		})
		return transactions.Update{
			ExtractedData: map[string]any{"extraction_error": msg},
			ChainedAction: transactions.Ptr(transactions.ActionNone),
			ErrorMessage:  transactions.Ptr(msg),
			Trace:         trace,
		}
	}

	fields, err := formatting.Parse[emailFields](raw)
	if err != nil {
		msg := fmt.Sprintf("email extraction output was not valid JSON: %v", err)
		trace = append(trace, transactions.TraceEntry{
			Agent: "EmailAgent", Step: "llm_parse_error", Details: msg,
		})
		return transactions.Update{
			ExtractedData: map[string]any{"parse_error": msg},
			ChainedAction: transactions.Ptr(transactions.ActionNone),
			ErrorMessage:  transactions.Ptr(msg),
			Trace:         trace,
		}
	}

	action := decideEmailAction(fields.Urgency, fields.Tone)
	trace = append(trace, transactions.TraceEntry{
		Agent:   "EmailAgent",
		Step:    "action_decision",
		Details: fmt.Sprintf("urgency=%q tone=%q action=%q", fields.Urgency, fields.Tone, action),
	})

	return transactions.Update{
		ExtractedData: map[string]any{
			"sender":        fields.Sender,
			"urgency":       fields.Urgency,
			"issue_request": fields.IssueRequest,
			"tone":          fields.Tone,
		},
		ChainedAction: transactions.Ptr(action),
		Trace:         trace,
	}
}

// decideEmailAction applies the urgency/tone policy. A threatening tone
// overrides everything else. The critical-or-(high-and-tone) grouping is
// deliberate and must not be regrouped.
func decideEmailAction(urgency, tone string) transactions.ChainedAction {
	urgency = strings.ToLower(strings.TrimSpace(urgency))
	tone = strings.ToLower(strings.TrimSpace(tone))

	if tone == "threatening" {
		return transactions.ActionEscalateCRMAndRiskAlert
	}

	escalatingTone := tone == "escalation" || tone == "threatening" || tone == "frustrated"

	switch {
	case urgency == "critical" || (urgency == "high" && escalatingTone):
		return transactions.ActionEscalateCRM
	case urgency == "low" || urgency == "medium":
		return transactions.ActionLogAndCloseCRM
	default:
		return transactions.ActionLogAndCloseCRM
	}
}

// parseEmailContent pulls the subject and the first plain-text,
// non-attachment body part. Unparseable messages fall back to regex
// subject extraction over the raw text.
func parseEmailContent(raw string) (subject, body string) {
	env, err := enmime.ReadEnvelope(strings.NewReader(raw))
	if err != nil {
		if match := subjectPattern.FindStringSubmatch(raw); match != nil {
			subject = strings.TrimSpace(match[1])
		}
		return subject, raw
	}
	return env.GetHeader("Subject"), env.Text
}
