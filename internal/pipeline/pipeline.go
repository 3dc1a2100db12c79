// Package pipeline implements the transaction state machine: classify,
// format-specific extraction, anomaly evaluation, chained-action routing,
// and action dispatch, all mediated through the transaction record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/flowbit/internal/transactions"
)

// Run executes one end-to-end pipeline for the given input. Input
// validation happens before a transaction id is allocated; after the
// record is seeded, stage failures degrade into the record rather than
// failing the run. The returned Result summarizes the final record even
// when downstream stages partially failed.
func Run(ctx context.Context, rt *Runtime, input *Input) (*Result, error) {
	d, err := detect(input)
	if err != nil {
		return nil, err
	}

	record := seedRecord(d)
	if err := rt.Records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("seed transaction record: %w", err)
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build pipeline graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyTransactionID, record.TransactionID)
	initial = initial.Set(KeyFormat, d.Format)
	initial = initial.Set(KeyExcerpt, d.Excerpt)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute pipeline: %w", err)
	}

	return extractResult(ctx, rt, record.TransactionID, final)
}

// seedRecord builds the initial record written before any external call,
// so crashed stages still leave an auditable partial record.
func seedRecord(d *detection) *transactions.Record {
	return &transactions.Record{
		TransactionID:     uuid.NewString(),
		Timestamp:         time.Now().UTC(),
		SourceType:        d.SourceType,
		RawInputType:      string(d.SourceType),
		RawInputStr:       d.RawInputStr,
		RawInputPDFBase64: d.PDFBase64,
		InputPreview:      d.InputPreview,
		ChainedAction:     transactions.ActionNone,
		Trace: []transactions.TraceEntry{{
			Agent:   "Ingress",
			Step:    "received",
			Details: fmt.Sprintf("detected format %s", d.Format),
		}},
	}
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("flowbit-pipeline")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("extract_email", EmailNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("extract_json", JSONNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("extract_pdf", PDFNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("route", RouteNode(rt)); err != nil {
		return nil, err
	}

	// classify branches to exactly one extractor on the detected format;
	// formats without an extractor go straight to routing
	if err := graph.AddEdge("classify", "extract_email", formatIs(transactions.FormatEmail)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("classify", "extract_json", formatIs(transactions.FormatJSON)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("classify", "extract_pdf", formatIs(transactions.FormatPDF)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("classify", "route", noExtractor); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("extract_email", "route", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("extract_json", "route", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("extract_pdf", "route", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("classify"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("route"); err != nil {
		return nil, err
	}

	return graph, nil
}

func formatIs(format transactions.Format) func(state.State) bool {
	return func(s state.State) bool {
		val, ok := s.Get(KeyFormat)
		if !ok {
			return false
		}
		current, ok := val.(transactions.Format)
		return ok && current == format
	}
}

func noExtractor(s state.State) bool {
	val, ok := s.Get(KeyFormat)
	if !ok {
		return true
	}
	format, ok := val.(transactions.Format)
	if !ok {
		return true
	}

	switch format {
	case transactions.FormatEmail, transactions.FormatJSON, transactions.FormatPDF:
		return false
	}
	return true
}

func extractResult(ctx context.Context, rt *Runtime, id string, s state.State) (*Result, error) {
	next, _ := stringKey(s, KeyNextStep)
	if next == "" {
		next = "processing complete"
	}

	record, err := rt.Records.Find(ctx, id)
	if err != nil {
		if errors.Is(err, transactions.ErrNotFound) {
			return degradedResult(id, s, next), nil
		}
		return nil, fmt.Errorf("load final record: %w", err)
	}

	return &Result{
		Message:       "processing complete",
		TransactionID: record.TransactionID,
		Format:        record.Format(),
		Intent:        record.Intent(),
		ChainedAction: record.ChainedAction,
		NextStep:      next,
	}, nil
}

// degradedResult summarizes a run whose final record could not be loaded.
// The state bag still carries the id and the detected format, and routing
// has already set the degraded next step.
func degradedResult(id string, s state.State, next string) *Result {
	var format transactions.Format
	if val, ok := s.Get(KeyFormat); ok {
		if f, ok := val.(transactions.Format); ok {
			format = f
		}
	}

	return &Result{
		Message:       "processing complete",
		TransactionID: id,
		Format:        format,
		ChainedAction: transactions.ActionNone,
		NextStep:      next,
	}
}
