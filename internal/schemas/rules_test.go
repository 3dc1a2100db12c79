package schemas

import (
	"encoding/json"
	"testing"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

func parseJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("failed to parse test fixture: %v", err)
	}
	return data
}

func TestCheckRFQQuantities(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantPaths []string
	}{
		{
			name:      "all positive",
			raw:       `{"items": [{"quantity": 5}, {"quantity": 1}]}`,
			wantCount: 0,
		},
		{
			name:      "one zero quantity",
			raw:       `{"items": [{"quantity": 5}, {"quantity": 0}]}`,
			wantCount: 1,
			wantPaths: []string{"items[1].quantity"},
		},
		{
			name:      "negative and zero",
			raw:       `{"items": [{"quantity": -3}, {"quantity": 2}, {"quantity": 0}]}`,
			wantCount: 2,
			wantPaths: []string{"items[0].quantity", "items[2].quantity"},
		},
		{
			name:      "missing quantity ignored",
			raw:       `{"items": [{"description": "widget"}]}`,
			wantCount: 0,
		},
		{
			name:      "no items",
			raw:       `{"request_id": "r1"}`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anomalies := CheckRules(transactions.IntentRFQ, parseJSON(t, tt.raw))
			if len(anomalies) != tt.wantCount {
				t.Fatalf("got %d anomalies, want %d: %+v", len(anomalies), tt.wantCount, anomalies)
			}
			for i, path := range tt.wantPaths {
				if anomalies[i].Path != path {
					t.Errorf("anomaly[%d].Path = %q, want %q", i, anomalies[i].Path, path)
				}
				if anomalies[i].Type != transactions.AnomalyBusinessRuleViolation {
					t.Errorf("anomaly[%d].Type = %q, want %q", i, anomalies[i].Type, transactions.AnomalyBusinessRuleViolation)
				}
			}
		})
	}
}

func TestCheckInvoiceTotal(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
	}{
		{
			name:      "exact match",
			raw:       `{"total_amount": 30.0, "line_items": [{"line_total": 10.0}, {"line_total": 20.0}]}`,
			wantCount: 0,
		},
		{
			name:      "within tolerance",
			raw:       `{"total_amount": 30.009, "line_items": [{"line_total": 10.0}, {"line_total": 20.0}]}`,
			wantCount: 0,
		},
		{
			name:      "beyond tolerance",
			raw:       `{"total_amount": 30.02, "line_items": [{"line_total": 10.0}, {"line_total": 20.0}]}`,
			wantCount: 1,
		},
		{
			name:      "non-numeric line totals ignored",
			raw:       `{"total_amount": 10.0, "line_items": [{"line_total": 10.0}, {"line_total": "n/a"}]}`,
			wantCount: 0,
		},
		{
			name:      "missing total",
			raw:       `{"line_items": [{"line_total": 10.0}]}`,
			wantCount: 0,
		},
		{
			name:      "empty line items",
			raw:       `{"total_amount": 10.0, "line_items": []}`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anomalies := CheckRules(transactions.IntentInvoice, parseJSON(t, tt.raw))
			if len(anomalies) != tt.wantCount {
				t.Fatalf("got %d anomalies, want %d: %+v", len(anomalies), tt.wantCount, anomalies)
			}
			if tt.wantCount == 1 && anomalies[0].Type != transactions.AnomalyInvoiceTotalMismatch {
				t.Errorf("anomaly type = %q, want %q", anomalies[0].Type, transactions.AnomalyInvoiceTotalMismatch)
			}
		})
	}
}

func TestValidateRFQ(t *testing.T) {
	valid := parseJSON(t, `{
		"request_id": "rfq-1",
		"company_name": "Acme",
		"items": [{"item_id": "i1", "description": "widget", "quantity": 5}],
		"due_date": "2026-04-01"
	}`)

	anomalies, err := Validate(transactions.IntentRFQ, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anomalies) != 0 {
		t.Fatalf("valid RFQ produced anomalies: %+v", anomalies)
	}

	missing := parseJSON(t, `{"request_id": "rfq-2", "items": []}`)
	anomalies, err = Validate(transactions.IntentRFQ, missing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anomalies) == 0 {
		t.Fatal("invalid RFQ produced no anomalies")
	}
	for _, a := range anomalies {
		if a.Type != transactions.AnomalySchemaValidation {
			t.Errorf("anomaly type = %q, want %q", a.Type, transactions.AnomalySchemaValidation)
		}
	}
}

func TestValidateSkipsUnregisteredIntents(t *testing.T) {
	anomalies, err := Validate(transactions.IntentComplaint, map[string]any{"free": "form"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anomalies != nil {
		t.Fatalf("unregistered intent produced anomalies: %+v", anomalies)
	}
}

func TestHasSchema(t *testing.T) {
	for _, intent := range []transactions.Intent{transactions.IntentRFQ, transactions.IntentInvoice, transactions.IntentFraudRisk} {
		if !HasSchema(intent) {
			t.Errorf("expected schema for %q", intent)
		}
	}
	for _, intent := range []transactions.Intent{transactions.IntentComplaint, transactions.IntentRegulation, transactions.IntentOther} {
		if HasSchema(intent) {
			t.Errorf("did not expect schema for %q", intent)
		}
	}
}
