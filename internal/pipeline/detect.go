package pipeline

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jhillyerd/enmime"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

const (
	pdfExcerptBudget   = 2000
	emailBodyBudget    = 500
	genericTextBudget  = 1000
	inputPreviewBudget = 100
)

var (
	emailHeaderPattern = regexp.MustCompile(`(?im)From:\s*.*@.*\nSubject:`)
	subjectPattern     = regexp.MustCompile(`(?i)Subject:\s*(.*)`)
)

// detect applies the ordered format heuristics to the ingress input and
// produces the detection used to seed the transaction record. Empty input
// and undecodable payloads are caller errors, rejected before a
// transaction id exists.
func detect(in *Input) (*detection, error) {
	if in.HasFile() {
		return detectFile(in)
	}
	if strings.TrimSpace(in.Text) != "" {
		return detectText(in.Text), nil
	}
	return nil, ErrNoInput
}

func detectFile(in *Input) (*detection, error) {
	d := &detection{
		SourceType:   transactions.SourceFile,
		InputPreview: in.Filename,
	}

	switch {
	case in.ContentType == "application/json" || strings.HasSuffix(in.Filename, ".json"):
		text, err := decodeText(in.FileData)
		if err != nil {
			return nil, err
		}
		d.Format = transactions.FormatJSON
		d.RawInputStr = text
		d.Excerpt = text

	case in.ContentType == "application/pdf" || strings.HasSuffix(in.Filename, ".pdf"):
		d.Format = transactions.FormatPDF
		d.PDFBase64 = base64.StdEncoding.EncodeToString(in.FileData)
		d.RawInputStr = fmt.Sprintf("PDF file: %s (content encoded in raw_input_pdf_base64)", in.Filename)
		d.Excerpt = pdfExcerpt(in)

	case in.ContentType == "message/rfc822" || strings.HasSuffix(in.Filename, ".eml"):
		text, err := decodeText(in.FileData)
		if err != nil {
			return nil, err
		}
		d.Format = transactions.FormatEmail
		d.RawInputStr = text
		d.Excerpt = emailExcerpt(text)

	default:
		text, err := decodeText(in.FileData)
		if err != nil {
			return nil, err
		}
		d.Format = transactions.FormatOtherFile
		d.RawInputStr = text
		d.Excerpt = truncate(text, genericTextBudget)
	}

	return d, nil
}

func detectText(text string) *detection {
	d := &detection{
		SourceType:   transactions.SourceText,
		RawInputStr:  text,
		InputPreview: truncate(text, inputPreviewBudget),
	}

	if json.Valid([]byte(text)) {
		d.Format = transactions.FormatJSON
		d.Excerpt = text
		return d
	}

	if emailHeaderPattern.MatchString(text) {
		d.Format = transactions.FormatEmail
		d.Excerpt = emailTextExcerpt(text)
		return d
	}

	d.Format = transactions.FormatOtherText
	d.Excerpt = truncate(text, genericTextBudget)
	return d
}

// pdfExcerpt extracts readable text for classification, falling back to a
// placeholder naming the file when extraction fails or yields nothing.
func pdfExcerpt(in *Input) string {
	text, err := extractPDFText(in.FileData, pdfExcerptBudget)
	if err != nil {
		return fmt.Sprintf("PDF file (extraction failed): %s. Content type: %s.", in.Filename, in.ContentType)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("PDF file: %s. Content type: %s. (No readable text content)", in.Filename, in.ContentType)
	}
	return truncate(text, pdfExcerptBudget)
}

// emailExcerpt parses a full RFC 822 message and combines its subject with
// the first plain-text, non-attachment body part.
func emailExcerpt(raw string) string {
	env, err := enmime.ReadEnvelope(strings.NewReader(raw))
	if err != nil {
		return emailTextExcerpt(raw)
	}

	subject := env.GetHeader("Subject")
	body := truncate(env.Text, emailBodyBudget)
	return fmt.Sprintf("Subject: %s\n\n%s", subject, body)
}

// emailTextExcerpt handles header-like direct text where full message
// parsing is not warranted: subject via regex, body capped.
func emailTextExcerpt(text string) string {
	var subject string
	if match := subjectPattern.FindStringSubmatch(text); match != nil {
		subject = strings.TrimSpace(match[1])
	}
	return fmt.Sprintf("Subject: %s\n\n%s", subject, truncate(text, emailBodyBudget))
}

func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrDecode
	}
	return string(data), nil
}

func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	return s[:budget]
}
