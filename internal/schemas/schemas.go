// Package schemas registers the JSON schemas for structured intents and
// runs schema validation plus intent-specific business rules.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

const rfqSchema = `{
	"type": "object",
	"properties": {
		"request_id": {"type": "string"},
		"company_name": {"type": "string"},
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"item_id": {"type": "string"},
					"description": {"type": "string"},
					"quantity": {"type": "integer"},
					"unit": {"type": "string"}
				},
				"required": ["item_id", "description", "quantity"]
			}
		},
		"due_date": {"type": "string"}
	},
	"required": ["request_id", "company_name", "items", "due_date"],
	"additionalProperties": false
}`

const invoiceSchema = `{
	"type": "object",
	"properties": {
		"invoice_number": {"type": "string"},
		"vendor_name": {"type": "string"},
		"customer_name": {"type": "string"},
		"total_amount": {"type": "number", "minimum": 0},
		"currency": {"type": "string", "pattern": "^(USD|EUR|GBP|INR)$"},
		"issue_date": {"type": "string"},
		"line_items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"description": {"type": "string"},
					"quantity": {"type": "integer", "minimum": 1},
					"unit_price": {"type": "number", "minimum": 0},
					"line_total": {"type": "number", "minimum": 0}
				},
				"required": ["description", "quantity", "unit_price"]
			}
		}
	},
	"required": ["invoice_number", "vendor_name", "total_amount", "currency"],
	"additionalProperties": false
}`

const fraudRiskSchema = `{
	"type": "object",
	"properties": {
		"alert_id": {"type": "string"},
		"risk_score": {"type": "number", "minimum": 0, "maximum": 100},
		"event_type": {"type": "string", "enum": ["unauthorized_login", "suspicious_transfer", "data_breach_attempt"]},
		"source_ip": {"type": "string", "format": "ipv4"},
		"user_id": {"type": "string"}
	},
	"required": ["alert_id", "risk_score", "event_type"],
	"additionalProperties": false
}`

var intentSchemas = map[transactions.Intent]*gojsonschema.Schema{}

func init() {
	definitions := map[transactions.Intent]string{
		transactions.IntentRFQ:       rfqSchema,
		transactions.IntentInvoice:   invoiceSchema,
		transactions.IntentFraudRisk: fraudRiskSchema,
	}

	for intent, definition := range definitions {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definition))
		if err != nil {
			panic(fmt.Sprintf("invalid %s schema: %v", intent, err))
		}
		intentSchemas[intent] = schema
	}
}

// InvoiceSchemaJSON returns the invoice schema document for embedding in
// extraction prompts.
func InvoiceSchemaJSON() string {
	return invoiceSchema
}

// HasSchema reports whether a schema is registered for the intent.
func HasSchema(intent transactions.Intent) bool {
	_, ok := intentSchemas[intent]
	return ok
}

// Validate checks data against the schema registered for the intent and
// returns one anomaly per violation, each carrying the violating path.
// A nil slice means the document is valid. Intents without a registered
// schema validate trivially.
func Validate(intent transactions.Intent, data map[string]any) ([]transactions.Anomaly, error) {
	schema, ok := intentSchemas[intent]
	if !ok {
		return nil, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation for %s: %w", intent, err)
	}

	if result.Valid() {
		return nil, nil
	}

	anomalies := make([]transactions.Anomaly, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		path := violation.Field()
		if path == "(root)" {
			path = ""
		}
		anomalies = append(anomalies, transactions.Anomaly{
			Type:    transactions.AnomalySchemaValidation,
			Message: fmt.Sprintf("schema validation failed for intent %q: %s", intent, violation.Description()),
			Path:    strings.TrimSpace(path),
		})
	}

	return anomalies, nil
}
