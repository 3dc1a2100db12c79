package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/inference"
	"github.com/JaimeStill/flowbit/internal/transactions"
)

// ClassifyNode returns a state node that obtains the intent label for the
// detection excerpt and writes classifier output onto the record. Label
// source failures and out-of-vocabulary labels degrade to intent Other;
// the node never fails the graph for an inference problem.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, format, err := extractRunKeys(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		excerpt, _ := stringKey(s, KeyExcerpt)

		intent := transactions.IntentOther
		detail := "no text available for classification, intent defaulted to Other"

		if strings.TrimSpace(excerpt) != "" {
			label, err := rt.Classifier.Complete(ctx, inference.ClassifierPrompt(excerpt))
			switch {
			case err != nil:
				rt.Logger.Warn("intent classification failed, defaulting to Other",
					"transaction_id", id,
					"error", err,
				)
				detail = fmt.Sprintf("label source failed (%v), intent defaulted to Other", err)
			default:
				parsed, ok := transactions.ParseIntent(strings.TrimSpace(label))
				if !ok {
					detail = fmt.Sprintf("unrecognized label %q, intent defaulted to Other", strings.TrimSpace(label))
				} else {
					intent = parsed
					detail = fmt.Sprintf("format=%s intent=%s", format, intent)
				}
			}
		}

		update := transactions.Update{
			ClassifierOutput: &transactions.Classification{Format: format, Intent: intent},
			Trace: []transactions.TraceEntry{{
				Agent:   "Classifier",
				Step:    "initial_classification",
				Details: detail,
			}},
		}

		if _, err := rt.Records.Merge(ctx, id, update); err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		rt.Logger.Info("transaction classified",
			"transaction_id", id,
			"format", format,
			"intent", intent,
		)

		return s, nil
	})
}

func extractRunKeys(s state.State) (string, transactions.Format, error) {
	id, ok := stringKey(s, KeyTransactionID)
	if !ok {
		return "", "", fmt.Errorf("missing %s in state", KeyTransactionID)
	}

	val, ok := s.Get(KeyFormat)
	if !ok {
		return "", "", fmt.Errorf("missing %s in state", KeyFormat)
	}

	format, ok := val.(transactions.Format)
	if !ok {
		return "", "", fmt.Errorf("%s is not a Format", KeyFormat)
	}

	return id, format, nil
}

func stringKey(s state.State, key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}
