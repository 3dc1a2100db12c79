package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/inference"
	"github.com/JaimeStill/flowbit/internal/schemas"
	"github.com/JaimeStill/flowbit/internal/transactions"
	"github.com/JaimeStill/flowbit/pkg/formatting"
)

const (
	pdfAgentTextBudget    = 5000
	invoiceAlertThreshold = 10000.0
)

// complianceVocabulary is the fixed set of terms the regulation check
// recognizes. Model-reported terms outside this set are discarded.
var complianceVocabulary = []string{"GDPR", "FDA", "HIPAA", "PCI DSS", "ISO 27001", "NIST"}

// PDFNode returns a state node that runs intent-specific PDF processing:
// structured invoice extraction with a high-value flag, or compliance
// keyword detection for regulations. Extractor-level failures short-circuit
// to Log Error without running intent logic.
func PDFNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, _, err := extractRunKeys(s)
		if err != nil {
			return s, fmt.Errorf("pdf: %w", err)
		}

		record, err := rt.Records.Find(ctx, id)
		if err != nil {
			return s, fmt.Errorf("pdf: %w", err)
		}

		update := processPDF(ctx, rt, record)

		if _, err := rt.Records.Merge(ctx, id, update); err != nil {
			return s, fmt.Errorf("pdf: %w", err)
		}

		rt.Logger.Info("pdf processed",
			"transaction_id", id,
			"chained_action", *update.ChainedAction,
		)

		return s, nil
	})
}

func processPDF(ctx context.Context, rt *Runtime, record *transactions.Record) transactions.Update {
	if record.RawInputPDFBase64 == "" {
		return pdfFailure("no raw PDF content found")
	}

	data, err := base64.StdEncoding.DecodeString(record.RawInputPDFBase64)
	if err != nil {
		return pdfFailure(fmt.Sprintf("failed to decode stored PDF content: %v", err))
	}

	text, err := extractPDFText(data, pdfAgentTextBudget)
	if err != nil {
		return pdfFailure(fmt.Sprintf("failed to extract text from PDF: %v", err))
	}

	output := map[string]any{
		"extracted_text_snippet": truncate(text, 1000),
		"full_text_extracted":    len(text) > 0,
		"processed_by":           "PDFAgent",
	}

	switch record.Intent() {
	case transactions.IntentInvoice:
		return processInvoicePDF(ctx, rt, text, output)
	case transactions.IntentRegulation:
		return processRegulationPDF(ctx, rt, text, output)
	default:
		output["status"] = "no specific PDF processing for this intent"
		return transactions.Update{
			PDFAgentOutput: output,
			ChainedAction:  transactions.Ptr(transactions.ActionNone),
			FinalStatus:    transactions.Ptr("processed_by_pdf_agent"),
			Trace: []transactions.TraceEntry{{
				Agent: "PDFAgent", Step: "skipped",
				Details: fmt.Sprintf("intent %q not handled for PDF", record.Intent()),
			}},
		}
	}
}

func processInvoicePDF(ctx context.Context, rt *Runtime, text string, output map[string]any) transactions.Update {
	prompt := inference.InvoiceExtractionPrompt(schemas.InvoiceSchemaJSON(), text)

	raw, err := rt.Extractor.Complete(ctx, prompt)
	if err != nil {
		return pdfExtractionFailure(output, fmt.Sprintf("invoice extraction failed: %v", err))
	}

	invoice, err := formatting.Parse[map[string]any](raw)
	if err != nil {
		return pdfExtractionFailure(output, fmt.Sprintf("invoice extraction output was not valid JSON: %v", err))
	}

	output["extracted_invoice_data"] = invoice

	action := transactions.ActionNone
	var flags []transactions.FlaggedCondition
	detail := "invoice extracted, no flags raised"

	if total, ok := numericField(invoice, "total_amount"); ok && total > invoiceAlertThreshold {
		flags = append(flags, transactions.FlaggedCondition{
			Type:    transactions.FlagInvoiceHighValue,
			Message: fmt.Sprintf("invoice total %v exceeds threshold %v", total, invoiceAlertThreshold),
		})
		action = transactions.ActionLogAlert
		detail = fmt.Sprintf("high value invoice flagged: total %v", total)
	}

	return transactions.Update{
		PDFAgentOutput: output,
		Flags:          flags,
		ChainedAction:  transactions.Ptr(action),
		FinalStatus:    transactions.Ptr("processed_by_pdf_agent"),
		Trace: []transactions.TraceEntry{{
			Agent: "PDFAgent", Step: "invoice_extraction", Details: detail,
		}},
	}
}

func processRegulationPDF(ctx context.Context, rt *Runtime, text string, output map[string]any) transactions.Update {
	raw, err := rt.Extractor.Complete(ctx, inference.PolicyKeywordPrompt(text))
	if err != nil {
		return pdfExtractionFailure(output, fmt.Sprintf("compliance keyword check failed: %v", err))
	}

	terms := matchComplianceTerms(raw)
	output["detected_compliance_terms"] = terms

	action := transactions.ActionNone
	var flags []transactions.FlaggedCondition
	detail := "no compliance keywords detected"

	if len(terms) > 0 {
		flags = append(flags, transactions.FlaggedCondition{
			Type:    transactions.FlagComplianceKeyword,
			Message: fmt.Sprintf("compliance terms detected: %s", strings.Join(terms, ", ")),
		})
		action = transactions.ActionLogAlert
		detail = fmt.Sprintf("compliance keywords flagged: %s", strings.Join(terms, ", "))
	}

	return transactions.Update{
		PDFAgentOutput: output,
		Flags:          flags,
		ChainedAction:  transactions.Ptr(action),
		FinalStatus:    transactions.Ptr("processed_by_pdf_agent"),
		Trace: []transactions.TraceEntry{{
			Agent: "PDFAgent", Step: "compliance_check", Details: detail,
		}},
	}
}

// pdfFailure builds the short-circuit update for extractor-level failures:
// a synthetic error record routed to Log Error, bypassing intent logic.
func pdfFailure(msg string) transactions.Update {
	return transactions.Update{
		PDFAgentOutput: map[string]any{"status": "failed", "error": msg},
		Flags: []transactions.FlaggedCondition{{
			Type:    transactions.FlagAgentError,
			Message: msg,
		}},
		ChainedAction: transactions.Ptr(transactions.ActionLogError),
		ErrorMessage:  transactions.Ptr(msg),
		FinalStatus:   transactions.Ptr("pdf_agent_error"),
		Trace: []transactions.TraceEntry{{
			Agent: "PDFAgent", Step: "error", Details: msg,
		}},
	}
}

// pdfExtractionFailure builds the update for intent-level extraction
// failures, keeping whatever output was produced before the failure.
func pdfExtractionFailure(output map[string]any, msg string) transactions.Update {
	return transactions.Update{
		PDFAgentOutput: output,
		Flags: []transactions.FlaggedCondition{{
			Type:    transactions.FlagExtractionError,
			Message: msg,
		}},
		ChainedAction: transactions.Ptr(transactions.ActionLogError),
		ErrorMessage:  transactions.Ptr(msg),
		FinalStatus:   transactions.Ptr("pdf_agent_error"),
		Trace: []transactions.TraceEntry{{
			Agent: "PDFAgent", Step: "extraction_error", Details: msg,
		}},
	}
}

// matchComplianceTerms filters model-reported terms against the fixed
// vocabulary, case-insensitively, preserving vocabulary casing.
func matchComplianceTerms(raw string) []string {
	lowered := strings.ToLower(raw)
	if strings.TrimSpace(lowered) == "none" {
		return nil
	}

	var found []string
	for _, term := range complianceVocabulary {
		if strings.Contains(lowered, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

func numericField(data map[string]any, key string) (float64, bool) {
	switch n := data[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
