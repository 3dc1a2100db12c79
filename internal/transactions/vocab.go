package transactions

// Format identifies the detected payload format. The set is closed;
// routing on format is exhaustive and mutually exclusive.
type Format string

const (
	FormatJSON      Format = "JSON"
	FormatEmail     Format = "Email"
	FormatPDF       Format = "PDF"
	FormatOtherFile Format = "Other_File"
	FormatOtherText Format = "Other_Text"
)

// ParseFormat validates a raw label against the format vocabulary.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case FormatJSON, FormatEmail, FormatPDF, FormatOtherFile, FormatOtherText:
		return Format(raw), true
	}
	return "", false
}

// Intent identifies the detected document intent. Unrecognized labels
// collapse to IntentOther at the classification boundary.
type Intent string

const (
	IntentRFQ        Intent = "RFQ"
	IntentComplaint  Intent = "Complaint"
	IntentInvoice    Intent = "Invoice"
	IntentRegulation Intent = "Regulation"
	IntentFraudRisk  Intent = "Fraud Risk"
	IntentOther      Intent = "Other"
)

// ParseIntent validates a raw label against the intent vocabulary.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(raw) {
	case IntentRFQ, IntentComplaint, IntentInvoice, IntentRegulation, IntentFraudRisk, IntentOther:
		return Intent(raw), true
	}
	return "", false
}

// ChainedAction is the decision token an extractor leaves for the routing
// engine. The vocabulary is closed but unrecognized tokens are preserved
// as-is so routing can surface them rather than silently drop them.
type ChainedAction string

const (
	ActionNone                    ChainedAction = "none"
	ActionLogAndCloseCRM          ChainedAction = "log_and_close_crm"
	ActionEscalateCRM             ChainedAction = "escalate_crm"
	ActionEscalateCRMAndRiskAlert ChainedAction = "escalate_crm_and_risk_alert"
	ActionLogAlert                ChainedAction = "Log Alert"
	ActionLogError                ChainedAction = "Log Error"
)

// Recognized reports whether the token belongs to the closed vocabulary.
func (a ChainedAction) Recognized() bool {
	switch a {
	case ActionNone, ActionLogAndCloseCRM, ActionEscalateCRM,
		ActionEscalateCRMAndRiskAlert, ActionLogAlert, ActionLogError:
		return true
	}
	return false
}

// AnomalyType identifies a validation or business-rule violation.
type AnomalyType string

const (
	AnomalyJSONParseError        AnomalyType = "JSON_PARSE_ERROR"
	AnomalyMissingContent        AnomalyType = "MISSING_JSON_CONTENT"
	AnomalySchemaValidation      AnomalyType = "SCHEMA_VALIDATION_ERROR"
	AnomalyBusinessRuleViolation AnomalyType = "BUSINESS_RULE_VIOLATION"
	AnomalyInvoiceTotalMismatch  AnomalyType = "INVOICE_TOTAL_MISMATCH"
)

// FlagType identifies a noteworthy or error condition recorded by the
// PDF extractor.
type FlagType string

const (
	FlagInvoiceHighValue  FlagType = "Invoice_HighValue"
	FlagComplianceKeyword FlagType = "Compliance_Keyword_Detected"
	FlagExtractionError   FlagType = "Extraction_Error"
	FlagAgentError        FlagType = "Agent_Error"
)

// ActionKind identifies a concrete outbound action the dispatcher can issue.
type ActionKind string

const (
	ActionKindCRMEscalate    ActionKind = "CRM_Escalate"
	ActionKindCRMLogAndClose ActionKind = "CRM_LogAndClose"
	ActionKindRiskAlert      ActionKind = "Risk_Alert"
)

// Outcome classifies the result of one dispatch call. Outcomes are
// mutually exclusive and every dispatch produces exactly one.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeConnectionError   Outcome = "connection_error"
	OutcomeHTTPError         Outcome = "http_error"
	OutcomeInternalError     Outcome = "internal_error"
	OutcomeUnsupportedAction Outcome = "unsupported_action"
)
