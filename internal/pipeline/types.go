package pipeline

import "github.com/JaimeStill/flowbit/internal/transactions"

// State bag keys shared across pipeline nodes. The transaction record is
// the source of truth; the state bag only carries the id, the detected
// format, the classification excerpt, and the final summary.
const (
	KeyTransactionID = "transaction_id"
	KeyFormat        = "format"
	KeyExcerpt       = "excerpt"
	KeyNextStep      = "next_step"
)

// Input is the ingress payload handed to a pipeline run: either file
// bytes with metadata, or direct text. Exactly one must be supplied.
type Input struct {
	Filename    string
	ContentType string
	FileData    []byte
	Text        string
}

// HasFile reports whether the input carries file bytes.
func (in *Input) HasFile() bool {
	return len(in.FileData) > 0
}

// Result is the structured summary returned to the ingress caller. It is
// produced even when downstream stages partially failed.
type Result struct {
	Message       string                     `json:"message"`
	TransactionID string                     `json:"transaction_id"`
	Format        transactions.Format        `json:"format"`
	Intent        transactions.Intent        `json:"intent"`
	ChainedAction transactions.ChainedAction `json:"chained_action_triggered"`
	NextStep      string                     `json:"next_step"`
}

// detection is the outcome of format detection: the detected format plus
// the payload encodings and the excerpt handed to classification.
type detection struct {
	Format       transactions.Format
	Excerpt      string
	RawInputStr  string
	PDFBase64    string
	InputPreview string
	SourceType   transactions.SourceType
}
