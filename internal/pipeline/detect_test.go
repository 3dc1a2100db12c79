package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

func TestDetectRejectsEmptyInput(t *testing.T) {
	_, err := detect(&Input{})
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestDetectJSONFile(t *testing.T) {
	payload := `{"request_id": "r1"}`

	tests := []struct {
		name  string
		input Input
	}{
		{"by extension", Input{Filename: "order.json", FileData: []byte(payload)}},
		{"by content type", Input{Filename: "upload", ContentType: "application/json", FileData: []byte(payload)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := detect(&tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Format != transactions.FormatJSON {
				t.Errorf("format = %q, want JSON", d.Format)
			}
			if d.RawInputStr != payload {
				t.Errorf("raw input = %q", d.RawInputStr)
			}
			if d.SourceType != transactions.SourceFile {
				t.Errorf("source type = %q", d.SourceType)
			}
		})
	}
}

func TestDetectPDFFile(t *testing.T) {
	d, err := detect(&Input{
		Filename:    "invoice.pdf",
		ContentType: "application/pdf",
		FileData:    []byte("%PDF-1.4 not a real pdf"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Format != transactions.FormatPDF {
		t.Errorf("format = %q, want PDF", d.Format)
	}
	if d.PDFBase64 == "" {
		t.Error("expected base64 payload to be populated")
	}
	if !strings.HasPrefix(d.Excerpt, "PDF file") {
		t.Errorf("excerpt should fall back to a placeholder, got %q", d.Excerpt)
	}
	if !strings.Contains(d.RawInputStr, "invoice.pdf") {
		t.Errorf("raw input placeholder should name the file, got %q", d.RawInputStr)
	}
}

func TestDetectEmailFile(t *testing.T) {
	raw := "From: angry@example.com\r\n" +
		"To: support@example.com\r\n" +
		"Subject: Broken order\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"The product arrived damaged and I want a refund.\r\n"

	d, err := detect(&Input{Filename: "complaint.eml", FileData: []byte(raw)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Format != transactions.FormatEmail {
		t.Errorf("format = %q, want Email", d.Format)
	}
	if !strings.Contains(d.Excerpt, "Subject: Broken order") {
		t.Errorf("excerpt missing subject: %q", d.Excerpt)
	}
	if !strings.Contains(d.Excerpt, "damaged") {
		t.Errorf("excerpt missing body: %q", d.Excerpt)
	}
}

func TestDetectOtherFile(t *testing.T) {
	text := strings.Repeat("x", 1500)
	d, err := detect(&Input{Filename: "notes.txt", FileData: []byte(text)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Format != transactions.FormatOtherFile {
		t.Errorf("format = %q, want Other_File", d.Format)
	}
	if len(d.Excerpt) != genericTextBudget {
		t.Errorf("excerpt length = %d, want %d", len(d.Excerpt), genericTextBudget)
	}
}

func TestDetectUndecodableFile(t *testing.T) {
	_, err := detect(&Input{Filename: "blob.txt", FileData: []byte{0xff, 0xfe, 0xc0}})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestDetectTextJSON(t *testing.T) {
	d, err := detect(&Input{Text: `{"total_amount": 12.5}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Format != transactions.FormatJSON {
		t.Errorf("format = %q, want JSON", d.Format)
	}
	if d.SourceType != transactions.SourceText {
		t.Errorf("source type = %q", d.SourceType)
	}
}

func TestDetectTextEmail(t *testing.T) {
	text := "From: someone@example.com\nSubject: Quote request\n\nPlease send pricing for 100 units."

	d, err := detect(&Input{Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Format != transactions.FormatEmail {
		t.Errorf("format = %q, want Email", d.Format)
	}
	if !strings.Contains(d.Excerpt, "Subject: Quote request") {
		t.Errorf("excerpt missing subject: %q", d.Excerpt)
	}
}

func TestDetectTextOther(t *testing.T) {
	d, err := detect(&Input{Text: "just a plain status update with no structure"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Format != transactions.FormatOtherText {
		t.Errorf("format = %q, want Other_Text", d.Format)
	}
}
