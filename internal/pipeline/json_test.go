package pipeline

import (
	"testing"
	"time"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

func jsonRecord(intent transactions.Intent, raw string) *transactions.Record {
	return &transactions.Record{
		TransactionID: "tx-json",
		Timestamp:     time.Now().UTC(),
		SourceType:    transactions.SourceText,
		RawInputStr:   raw,
		ClassifierOutput: &transactions.Classification{
			Format: transactions.FormatJSON,
			Intent: intent,
		},
	}
}

func TestProcessJSONParseError(t *testing.T) {
	update := processJSON(jsonRecord(transactions.IntentOther, `{"broken":`))

	if *update.ChainedAction != transactions.ActionLogAlert {
		t.Errorf("action = %q, want Log Alert", *update.ChainedAction)
	}
	if len(update.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(update.Anomalies))
	}
	if update.Anomalies[0].Type != transactions.AnomalyJSONParseError {
		t.Errorf("anomaly type = %q", update.Anomalies[0].Type)
	}
}

func TestProcessJSONMissingContent(t *testing.T) {
	update := processJSON(jsonRecord(transactions.IntentOther, ""))

	if *update.ChainedAction != transactions.ActionLogAlert {
		t.Errorf("action = %q, want Log Alert", *update.ChainedAction)
	}
	if len(update.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(update.Anomalies))
	}
}

func TestProcessJSONRFQQuantityViolation(t *testing.T) {
	raw := `{
		"request_id": "rfq-1",
		"company_name": "Acme",
		"items": [
			{"item_id": "i1", "description": "widget", "quantity": 5},
			{"item_id": "i2", "description": "gadget", "quantity": 0}
		],
		"due_date": "2026-04-01"
	}`

	update := processJSON(jsonRecord(transactions.IntentRFQ, raw))

	if *update.ChainedAction != transactions.ActionLogAlert {
		t.Errorf("action = %q, want Log Alert", *update.ChainedAction)
	}

	var ruleViolations []transactions.Anomaly
	for _, a := range update.Anomalies {
		if a.Type == transactions.AnomalyBusinessRuleViolation {
			ruleViolations = append(ruleViolations, a)
		}
	}
	if len(ruleViolations) != 1 {
		t.Fatalf("expected exactly 1 business rule violation, got %d: %+v", len(ruleViolations), update.Anomalies)
	}
	if ruleViolations[0].Path != "items[1].quantity" {
		t.Errorf("violation path = %q, want items[1].quantity", ruleViolations[0].Path)
	}
}

func TestProcessJSONInvoiceTotalMismatch(t *testing.T) {
	raw := `{
		"invoice_number": "inv-1",
		"vendor_name": "Acme",
		"total_amount": 150.00,
		"currency": "USD",
		"line_items": [
			{"description": "widgets", "quantity": 10, "unit_price": 10.0, "line_total": 100.0}
		]
	}`

	update := processJSON(jsonRecord(transactions.IntentInvoice, raw))

	if *update.ChainedAction != transactions.ActionLogAlert {
		t.Errorf("action = %q, want Log Alert", *update.ChainedAction)
	}

	var mismatches []transactions.Anomaly
	for _, a := range update.Anomalies {
		if a.Type == transactions.AnomalyInvoiceTotalMismatch {
			mismatches = append(mismatches, a)
		}
	}
	if len(mismatches) != 1 {
		t.Fatalf("expected exactly 1 total mismatch, got %d", len(mismatches))
	}
}

func TestProcessJSONInvoiceWithinTolerance(t *testing.T) {
	raw := `{
		"invoice_number": "inv-2",
		"vendor_name": "Acme",
		"total_amount": 100.005,
		"currency": "USD",
		"line_items": [
			{"description": "widgets", "quantity": 10, "unit_price": 10.0, "line_total": 100.0}
		]
	}`

	update := processJSON(jsonRecord(transactions.IntentInvoice, raw))

	if *update.ChainedAction != transactions.ActionNone {
		t.Errorf("action = %q, want none: %+v", *update.ChainedAction, update.Anomalies)
	}
	if len(update.Anomalies) != 0 {
		t.Errorf("expected no anomalies, got %+v", update.Anomalies)
	}
}

func TestProcessJSONSchemaViolation(t *testing.T) {
	// missing required fields for the RFQ schema
	update := processJSON(jsonRecord(transactions.IntentRFQ, `{"request_id": "rfq-2"}`))

	if *update.ChainedAction != transactions.ActionLogAlert {
		t.Errorf("action = %q, want Log Alert", *update.ChainedAction)
	}

	found := false
	for _, a := range update.Anomalies {
		if a.Type == transactions.AnomalySchemaValidation {
			found = true
		}
		if a.Type == transactions.AnomalyBusinessRuleViolation {
			t.Error("business rules must not run once schema anomalies exist")
		}
	}
	if !found {
		t.Errorf("expected a schema validation anomaly, got %+v", update.Anomalies)
	}
}

func TestProcessJSONCleanDocument(t *testing.T) {
	update := processJSON(jsonRecord(transactions.IntentOther, `{"note": "free-form"}`))

	if *update.ChainedAction != transactions.ActionNone {
		t.Errorf("action = %q, want none", *update.ChainedAction)
	}
	if len(update.Anomalies) != 0 {
		t.Errorf("expected no anomalies, got %+v", update.Anomalies)
	}
	if update.ExtractedData["parsed_json"] == nil {
		t.Error("parsed JSON should be stored in extracted data")
	}
}
