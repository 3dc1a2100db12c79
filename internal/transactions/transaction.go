// Package transactions defines the shared transaction record, its closed
// vocabularies, and the versioned record system every pipeline stage
// mutates through a field-level merge contract.
package transactions

import "time"

// SourceType identifies which ingress path produced a record.
type SourceType string

const (
	SourceFile SourceType = "file"
	SourceText SourceType = "text"
)

// Classification is the seed output of the classification stage.
type Classification struct {
	Format Format `json:"format"`
	Intent Intent `json:"intent"`
}

// Anomaly records a detected validation or business-rule violation.
// Path locates the offending field when one applies.
type Anomaly struct {
	Type    AnomalyType `json:"type"`
	Message string      `json:"message"`
	Path    string      `json:"path,omitempty"`
}

// FlaggedCondition records a noteworthy non-violation fact, such as a
// high-value invoice or a compliance keyword hit.
type FlaggedCondition struct {
	Type    FlagType `json:"type"`
	Message string   `json:"message"`
}

// TraceEntry is one audit log entry. Every stage that mutates the record
// appends at least one entry describing what it did.
type TraceEntry struct {
	Agent   string `json:"agent"`
	Step    string `json:"step"`
	Details string `json:"details"`
	Status  string `json:"status,omitempty"`
}

// Record is the sole unit of cross-stage state for one transaction.
// TransactionID, Timestamp, and the raw input fields are immutable after
// creation; everything else is mutated through Apply.
type Record struct {
	TransactionID     string             `json:"transaction_id"`
	Timestamp         time.Time          `json:"timestamp"`
	SourceType        SourceType         `json:"source_type"`
	RawInputType      string             `json:"raw_input_type"`
	RawInputStr       string             `json:"raw_input_str,omitempty"`
	RawInputPDFBase64 string             `json:"raw_input_pdf_base64,omitempty"`
	InputPreview      string             `json:"initial_input_preview,omitempty"`
	ClassifierOutput  *Classification    `json:"classifier_output,omitempty"`
	ExtractedData     map[string]any     `json:"extracted_data,omitempty"`
	PDFAgentOutput    map[string]any     `json:"pdf_agent_output,omitempty"`
	AnomalyDetails    []Anomaly          `json:"anomaly_details,omitempty"`
	FlaggedConditions []FlaggedCondition `json:"flagged_conditions,omitempty"`
	ChainedAction     ChainedAction      `json:"chained_action_triggered"`
	Trace             []TraceEntry       `json:"agent_decision_trace"`
	ErrorMessage      string             `json:"error_message,omitempty"`
	FinalStatus       string             `json:"final_status,omitempty"`
}

// Update is a field-level partial mutation of a Record. Scalar fields use
// pointers so absence and zero values are distinguishable; slice fields
// are appended, never replaced, preserving the append-only trace and
// anomaly discipline.
type Update struct {
	ClassifierOutput *Classification
	ExtractedData    map[string]any
	PDFAgentOutput   map[string]any
	Anomalies        []Anomaly
	Flags            []FlaggedCondition
	ChainedAction    *ChainedAction
	Trace            []TraceEntry
	ErrorMessage     *string
	FinalStatus      *string
}

// Apply merges the update into the record. Set fields overwrite with
// last-writer-wins semantics; anomalies, flags, and trace entries append
// in order and are never reordered or truncated.
func (r *Record) Apply(u Update) {
	if u.ClassifierOutput != nil {
		r.ClassifierOutput = u.ClassifierOutput
	}
	if u.ExtractedData != nil {
		r.ExtractedData = u.ExtractedData
	}
	if u.PDFAgentOutput != nil {
		r.PDFAgentOutput = u.PDFAgentOutput
	}
	if len(u.Anomalies) > 0 {
		r.AnomalyDetails = append(r.AnomalyDetails, u.Anomalies...)
	}
	if len(u.Flags) > 0 {
		r.FlaggedConditions = append(r.FlaggedConditions, u.Flags...)
	}
	if u.ChainedAction != nil {
		r.ChainedAction = *u.ChainedAction
	}
	if len(u.Trace) > 0 {
		r.Trace = append(r.Trace, u.Trace...)
	}
	if u.ErrorMessage != nil {
		r.ErrorMessage = *u.ErrorMessage
	}
	if u.FinalStatus != nil {
		r.FinalStatus = *u.FinalStatus
	}
}

// Format returns the detected format, defaulting to Other_Text when
// classification has not run.
func (r *Record) Format() Format {
	if r.ClassifierOutput == nil {
		return FormatOtherText
	}
	return r.ClassifierOutput.Format
}

// Intent returns the detected intent, defaulting to Other when
// classification has not run.
func (r *Record) Intent() Intent {
	if r.ClassifierOutput == nil {
		return IntentOther
	}
	return r.ClassifierOutput.Intent
}

// Summary is the listing projection of a record kept in the transaction
// index.
type Summary struct {
	TransactionID string        `json:"transaction_id"`
	Timestamp     time.Time     `json:"timestamp"`
	Format        Format        `json:"format"`
	Intent        Intent        `json:"intent"`
	ChainedAction ChainedAction `json:"chained_action_triggered"`
	FinalStatus   string        `json:"final_status,omitempty"`
}

// Summarize projects the record into its index row.
func (r *Record) Summarize() Summary {
	return Summary{
		TransactionID: r.TransactionID,
		Timestamp:     r.Timestamp,
		Format:        r.Format(),
		Intent:        r.Intent(),
		ChainedAction: r.ChainedAction,
		FinalStatus:   r.FinalStatus,
	}
}

// Ptr returns a pointer to v, for optional fields in Update literals.
func Ptr[T any](v T) *T {
	return &v
}
