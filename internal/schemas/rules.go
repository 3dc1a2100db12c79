package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

// invoiceTotalTolerance is the absolute tolerance allowed between an
// invoice's declared total and the sum of its line totals.
const invoiceTotalTolerance = 0.01

// CheckRules runs the intent-specific business rules against parsed JSON
// data. Rules assume schema validation already passed or was skipped;
// callers gate on prior anomalies.
func CheckRules(intent transactions.Intent, data map[string]any) []transactions.Anomaly {
	switch intent {
	case transactions.IntentRFQ:
		return checkRFQQuantities(data)
	case transactions.IntentInvoice:
		return checkInvoiceTotal(data)
	default:
		return nil
	}
}

// checkRFQQuantities flags every item whose quantity is not positive.
func checkRFQQuantities(data map[string]any) []transactions.Anomaly {
	items, ok := data["items"].([]any)
	if !ok {
		return nil
	}

	var anomalies []transactions.Anomaly
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		quantity, ok := asNumber(item["quantity"])
		if !ok {
			continue
		}

		if quantity <= 0 {
			anomalies = append(anomalies, transactions.Anomaly{
				Type:    transactions.AnomalyBusinessRuleViolation,
				Message: fmt.Sprintf("RFQ item at index %d has non-positive quantity: %v", i, item["quantity"]),
				Path:    fmt.Sprintf("items[%d].quantity", i),
			})
		}
	}

	return anomalies
}

// checkInvoiceTotal verifies total_amount against the sum of line_total
// values when both are present and numeric. Non-numeric line totals are
// ignored rather than treated as violations.
func checkInvoiceTotal(data map[string]any) []transactions.Anomaly {
	total, ok := asNumber(data["total_amount"])
	if !ok {
		return nil
	}

	items, ok := data["line_items"].([]any)
	if !ok || len(items) == 0 {
		return nil
	}

	var calculated float64
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if lineTotal, ok := asNumber(item["line_total"]); ok {
			calculated += lineTotal
		}
	}

	diff := total - calculated
	if diff < 0 {
		diff = -diff
	}

	if diff > invoiceTotalTolerance {
		return []transactions.Anomaly{{
			Type:    transactions.AnomalyInvoiceTotalMismatch,
			Message: fmt.Sprintf("invoice total %v does not match sum of line items %v", total, calculated),
			Path:    "total_amount",
		}}
	}

	return nil
}

// asNumber accepts the numeric shapes encoding/json produces plus native
// ints from constructed test data.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
