package dispatch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/transactions"
	"github.com/JaimeStill/flowbit/pkg/pagination"
)

// recordingSystem captures merged updates so tests can assert on the
// trace entries the dispatcher appends.
type recordingSystem struct {
	updates []transactions.Update
}

func (r *recordingSystem) Create(_ context.Context, _ *transactions.Record) error { return nil }

func (r *recordingSystem) Find(_ context.Context, _ string) (*transactions.Record, error) {
	return &transactions.Record{}, nil
}

func (r *recordingSystem) Merge(_ context.Context, _ string, u transactions.Update) (*transactions.Record, error) {
	r.updates = append(r.updates, u)
	return &transactions.Record{}, nil
}

func (r *recordingSystem) List(_ context.Context, _ pagination.Page, _ transactions.Filters) (pagination.Result[transactions.Summary], error) {
	return pagination.Result[transactions.Summary]{}, nil
}

func newDispatcher(t *testing.T, escalateURL, logCloseURL, riskURL string) (System, *recordingSystem) {
	t.Helper()

	cfg := &config.DispatchConfig{
		CRMEscalateURL:    escalateURL,
		CRMLogAndCloseURL: logCloseURL,
		RiskAlertURL:      riskURL,
		Timeout:           "2s",
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize dispatch config: %v", err)
	}

	records := &recordingSystem{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, records, logger), records
}

func TestDispatchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	d, records := newDispatcher(t, server.URL, server.URL, server.URL)

	outcome := d.Dispatch(context.Background(), "tx-1", transactions.ActionKindCRMEscalate, map[string]any{
		"sender": "a@example.com",
	})

	if outcome != transactions.OutcomeSuccess {
		t.Fatalf("outcome = %q, want %q", outcome, transactions.OutcomeSuccess)
	}
	if len(records.updates) != 1 {
		t.Fatalf("expected 1 trace merge, got %d", len(records.updates))
	}

	entry := records.updates[0].Trace[0]
	if entry.Agent != "ActionDispatcher" {
		t.Errorf("trace agent = %q", entry.Agent)
	}
	if entry.Step != string(transactions.ActionKindCRMEscalate) {
		t.Errorf("trace step = %q", entry.Step)
	}
	if entry.Status != string(transactions.OutcomeSuccess) {
		t.Errorf("trace status = %q", entry.Status)
	}
}

func TestDispatchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "downstream failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	d, records := newDispatcher(t, server.URL, server.URL, server.URL)

	outcome := d.Dispatch(context.Background(), "tx-2", transactions.ActionKindRiskAlert, nil)

	if outcome != transactions.OutcomeHTTPError {
		t.Fatalf("outcome = %q, want %q", outcome, transactions.OutcomeHTTPError)
	}
	if len(records.updates) != 1 {
		t.Fatalf("expected 1 trace merge, got %d", len(records.updates))
	}
	if records.updates[0].Trace[0].Status != string(transactions.OutcomeHTTPError) {
		t.Errorf("trace status = %q", records.updates[0].Trace[0].Status)
	}
}

func TestDispatchConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachable := server.URL
	server.Close()

	d, records := newDispatcher(t, unreachable, unreachable, unreachable)

	outcome := d.Dispatch(context.Background(), "tx-3", transactions.ActionKindCRMLogAndClose, nil)

	if outcome != transactions.OutcomeConnectionError {
		t.Fatalf("outcome = %q, want %q", outcome, transactions.OutcomeConnectionError)
	}
	if len(records.updates) != 1 {
		t.Fatalf("expected 1 trace merge, got %d", len(records.updates))
	}
}

func TestDispatchUnsupportedAction(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	d, records := newDispatcher(t, server.URL, server.URL, server.URL)

	outcome := d.Dispatch(context.Background(), "tx-4", transactions.ActionKind("Teleport"), nil)

	if outcome != transactions.OutcomeUnsupportedAction {
		t.Fatalf("outcome = %q, want %q", outcome, transactions.OutcomeUnsupportedAction)
	}
	if requested {
		t.Error("unsupported action should not issue a network call")
	}
	if len(records.updates) != 1 {
		t.Fatalf("expected 1 trace merge, got %d", len(records.updates))
	}
}
