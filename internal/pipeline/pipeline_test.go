package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/transactions"
	"github.com/JaimeStill/flowbit/pkg/pagination"
)

// missingRecordSystem reports every record as absent, modeling a store
// whose entry disappeared between stages.
type missingRecordSystem struct{}

func (missingRecordSystem) Create(context.Context, *transactions.Record) error { return nil }

func (missingRecordSystem) Find(context.Context, string) (*transactions.Record, error) {
	return nil, transactions.ErrNotFound
}

func (missingRecordSystem) Merge(context.Context, string, transactions.Update) (*transactions.Record, error) {
	return nil, transactions.ErrNotFound
}

func (missingRecordSystem) List(context.Context, pagination.Page, transactions.Filters) (pagination.Result[transactions.Summary], error) {
	return pagination.Result[transactions.Summary]{}, nil
}

func TestMissingRecordYieldsDegradedSummary(t *testing.T) {
	rt := &Runtime{
		Records:    missingRecordSystem{},
		Dispatcher: &fakeDispatcher{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	degraded := "processing completed, but final record retrieval failed for action routing"

	s := state.New(nil)
	s = s.Set(KeyTransactionID, "tx-missing")
	s = s.Set(KeyFormat, transactions.FormatEmail)
	s = s.Set(KeyNextStep, degraded)

	result, err := extractResult(context.Background(), rt, "tx-missing", s)
	if err != nil {
		t.Fatalf("expected degraded summary, got error: %v", err)
	}

	if result.TransactionID != "tx-missing" {
		t.Errorf("transaction id = %q", result.TransactionID)
	}
	if result.Format != transactions.FormatEmail {
		t.Errorf("format = %q, want Email", result.Format)
	}
	if result.ChainedAction != transactions.ActionNone {
		t.Errorf("chained action = %q, want none", result.ChainedAction)
	}
	if result.NextStep != degraded {
		t.Errorf("next step = %q, want %q", result.NextStep, degraded)
	}
}
