package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

type stubExtractor struct {
	raw string
	err error
}

func (s stubExtractor) Complete(context.Context, string) (string, error) {
	return s.raw, s.err
}

func emailTestRuntime(extractor stubExtractor) *Runtime {
	return &Runtime{
		Extractor: extractor,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func emailRecord(raw string) *transactions.Record {
	return &transactions.Record{
		TransactionID: "tx-email",
		RawInputStr:   raw,
	}
}

func TestProcessEmailExtractionFailure(t *testing.T) {
	rt := emailTestRuntime(stubExtractor{err: errors.New("model unavailable")})

	update := processEmail(context.Background(), rt, emailRecord("Subject: help\n\nplease advise"))

	if *update.ChainedAction != transactions.ActionNone {
		t.Errorf("action = %q, want none", *update.ChainedAction)
	}
	if update.ErrorMessage == nil || *update.ErrorMessage == "" {
		t.Error("expected an error message on extraction failure")
	}
	if _, ok := update.ExtractedData["extraction_error"]; !ok {
		t.Errorf("extracted data = %v, want extraction_error entry", update.ExtractedData)
	}
}

func TestProcessEmailParseFailure(t *testing.T) {
	rt := emailTestRuntime(stubExtractor{raw: "the sender seems upset but here is no JSON"})

	update := processEmail(context.Background(), rt, emailRecord("Subject: help\n\nplease advise"))

	if *update.ChainedAction != transactions.ActionNone {
		t.Errorf("action = %q, want none", *update.ChainedAction)
	}
	if update.ErrorMessage == nil || *update.ErrorMessage == "" {
		t.Error("expected an error message on parse failure")
	}
	if _, ok := update.ExtractedData["parse_error"]; !ok {
		t.Errorf("extracted data = %v, want parse_error entry", update.ExtractedData)
	}
}

func TestDecideEmailAction(t *testing.T) {
	tests := []struct {
		name    string
		urgency string
		tone    string
		want    transactions.ChainedAction
	}{
		{
			name:    "threatening tone overrides low urgency",
			urgency: "low",
			tone:    "threatening",
			want:    transactions.ActionEscalateCRMAndRiskAlert,
		},
		{
			name:    "threatening tone overrides critical urgency",
			urgency: "critical",
			tone:    "threatening",
			want:    transactions.ActionEscalateCRMAndRiskAlert,
		},
		{
			name:    "threatening tone overrides unrecognized urgency",
			urgency: "apocalyptic",
			tone:    "threatening",
			want:    transactions.ActionEscalateCRMAndRiskAlert,
		},
		{
			name:    "critical urgency escalates regardless of tone",
			urgency: "critical",
			tone:    "polite",
			want:    transactions.ActionEscalateCRM,
		},
		{
			name:    "high urgency with frustrated tone escalates",
			urgency: "high",
			tone:    "frustrated",
			want:    transactions.ActionEscalateCRM,
		},
		{
			name:    "high urgency with escalation tone escalates",
			urgency: "high",
			tone:    "escalation",
			want:    transactions.ActionEscalateCRM,
		},
		{
			name:    "high urgency with polite tone does not escalate",
			urgency: "high",
			tone:    "polite",
			want:    transactions.ActionLogAndCloseCRM,
		},
		{
			name:    "low urgency polite tone logs and closes",
			urgency: "low",
			tone:    "polite",
			want:    transactions.ActionLogAndCloseCRM,
		},
		{
			name:    "medium urgency logs and closes",
			urgency: "medium",
			tone:    "neutral",
			want:    transactions.ActionLogAndCloseCRM,
		},
		{
			name:    "unrecognized urgency and tone default to log and close",
			urgency: "whatever",
			tone:    "sarcastic",
			want:    transactions.ActionLogAndCloseCRM,
		},
		{
			name:    "case and whitespace are normalized",
			urgency: " Critical ",
			tone:    "POLITE",
			want:    transactions.ActionEscalateCRM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decideEmailAction(tt.urgency, tt.tone)
			if got != tt.want {
				t.Errorf("decideEmailAction(%q, %q) = %q, want %q", tt.urgency, tt.tone, got, tt.want)
			}
		})
	}
}
