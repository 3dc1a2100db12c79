package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/flowbit/pkg/store"
)

// memoryStore emulates the record store's JSON round-trip in memory.
type memoryStore struct {
	records map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.records[key] = data
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string, dest any) error {
	data, ok := m.records[key]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.records[key]
	return ok, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.records, key)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func testSystem() (System, *memoryStore) {
	records := newMemoryStore()
	sys := NewSystem(records, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return sys, records
}

func TestCreateFindRoundTrip(t *testing.T) {
	sys, _ := testSystem()
	ctx := context.Background()

	record := &Record{
		TransactionID: "tx-rt",
		Timestamp:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		SourceType:    SourceText,
		RawInputStr:   `{"request_id": "r1"}`,
		ClassifierOutput: &Classification{
			Format: FormatJSON,
			Intent: IntentRFQ,
		},
		ChainedAction: ActionNone,
		Trace: []TraceEntry{
			{Agent: "Ingress", Step: "received", Details: "detected format JSON"},
		},
	}

	if err := sys.Create(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := sys.Find(ctx, "tx-rt")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if found.TransactionID != record.TransactionID {
		t.Errorf("id = %q, want %q", found.TransactionID, record.TransactionID)
	}
	if !found.Timestamp.Equal(record.Timestamp) {
		t.Errorf("timestamp = %v, want %v", found.Timestamp, record.Timestamp)
	}
	if found.RawInputStr != record.RawInputStr {
		t.Errorf("raw input = %q", found.RawInputStr)
	}
	if found.Format() != FormatJSON || found.Intent() != IntentRFQ {
		t.Errorf("classification = %q/%q", found.Format(), found.Intent())
	}
	if len(found.Trace) != 1 || found.Trace[0].Step != "received" {
		t.Errorf("trace = %+v", found.Trace)
	}
}

func TestCreateRequiresID(t *testing.T) {
	sys, _ := testSystem()

	err := sys.Create(context.Background(), &Record{})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

func TestCreateDefaultsChainedAction(t *testing.T) {
	sys, _ := testSystem()
	ctx := context.Background()

	if err := sys.Create(ctx, &Record{TransactionID: "tx-default"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := sys.Find(ctx, "tx-default")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ChainedAction != ActionNone {
		t.Errorf("chained action = %q, want none", found.ChainedAction)
	}
}

func TestFindUnknownID(t *testing.T) {
	sys, _ := testSystem()

	_, err := sys.Find(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMergeAppliesUpdate(t *testing.T) {
	sys, _ := testSystem()
	ctx := context.Background()

	if err := sys.Create(ctx, &Record{TransactionID: "tx-merge", ChainedAction: ActionNone}); err != nil {
		t.Fatalf("create: %v", err)
	}

	merged, err := sys.Merge(ctx, "tx-merge", Update{
		ChainedAction: Ptr(ActionLogAlert),
		Anomalies:     []Anomaly{{Type: AnomalyJSONParseError, Message: "bad json"}},
		Trace:         []TraceEntry{{Agent: "JSONAgent", Step: "json_parse_error", Details: "bad json"}},
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if merged.ChainedAction != ActionLogAlert {
		t.Errorf("chained action = %q", merged.ChainedAction)
	}

	// the merge must be durable, not just reflected in the return value
	found, err := sys.Find(ctx, "tx-merge")
	if err != nil {
		t.Fatalf("find after merge: %v", err)
	}
	if len(found.AnomalyDetails) != 1 || len(found.Trace) != 1 {
		t.Errorf("persisted record = %+v", found)
	}
}

func TestMergeUnknownIDLeavesStoreUntouched(t *testing.T) {
	sys, records := testSystem()
	ctx := context.Background()

	if err := sys.Create(ctx, &Record{TransactionID: "tx-other"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	before := len(records.records)

	_, err := sys.Merge(ctx, "missing", Update{ErrorMessage: Ptr("boom")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if len(records.records) != before {
		t.Errorf("store mutated by failed merge: %d -> %d", before, len(records.records))
	}
	other, err := sys.Find(ctx, "tx-other")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if other.ErrorMessage != "" {
		t.Errorf("unrelated record mutated: %+v", other)
	}
}
