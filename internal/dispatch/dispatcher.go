// Package dispatch issues outbound action calls and records every outcome
// on the transaction audit trace. Failures are recorded, never propagated;
// a dispatch call always returns an outcome.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/transactions"
)

// System is the action dispatcher contract. Dispatch issues one outbound
// call for the action kind, appends one trace entry describing the outcome,
// and returns the outcome. It never returns an error.
type System interface {
	Dispatch(ctx context.Context, transactionID string, kind transactions.ActionKind, payload map[string]any) transactions.Outcome
}

type dispatcher struct {
	client    *http.Client
	endpoints map[transactions.ActionKind]string
	records   transactions.System
	logger    *slog.Logger
}

// New creates the HTTP action dispatcher from the dispatch config.
func New(cfg *config.DispatchConfig, records transactions.System, logger *slog.Logger) System {
	return &dispatcher{
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoints: map[transactions.ActionKind]string{
			transactions.ActionKindCRMEscalate:    cfg.CRMEscalateURL,
			transactions.ActionKindCRMLogAndClose: cfg.CRMLogAndCloseURL,
			transactions.ActionKindRiskAlert:      cfg.RiskAlertURL,
		},
		records: records,
		logger:  logger.With("system", "dispatch"),
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, transactionID string, kind transactions.ActionKind, payload map[string]any) transactions.Outcome {
	outcome, detail := d.call(ctx, kind, payload)

	d.logger.Info("action dispatched",
		"transaction_id", transactionID,
		"action", kind,
		"outcome", outcome,
	)

	entry := transactions.TraceEntry{
		Agent:   "ActionDispatcher",
		Step:    string(kind),
		Details: detail,
		Status:  string(outcome),
	}

	if _, err := d.records.Merge(ctx, transactionID, transactions.Update{
		Trace: []transactions.TraceEntry{entry},
	}); err != nil {
		d.logger.Error("failed to record dispatch outcome",
			"transaction_id", transactionID,
			"action", kind,
			"error", err,
		)
	}

	return outcome
}

func (d *dispatcher) call(ctx context.Context, kind transactions.ActionKind, payload map[string]any) (transactions.Outcome, string) {
	endpoint, ok := d.endpoints[kind]
	if !ok {
		return transactions.OutcomeUnsupportedAction, fmt.Sprintf("unsupported action: %s", kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return transactions.OutcomeInternalError, fmt.Sprintf("marshal payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return transactions.OutcomeInternalError, fmt.Sprintf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return transactions.OutcomeConnectionError, fmt.Sprintf("endpoint unreachable: %s", endpoint)
		}
		return transactions.OutcomeHTTPError, fmt.Sprintf("request failed: %v", err)
	}
	defer resp.Body.Close()

	captured, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transactions.OutcomeHTTPError, fmt.Sprintf("status %d: %s", resp.StatusCode, captured)
	}

	return transactions.OutcomeSuccess, string(captured)
}

// isConnectionError distinguishes an unreachable endpoint from other
// transport failures; timeouts and protocol errors fold into http_error.
func isConnectionError(err error) bool {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}

	var opErr *net.OpError
	return errors.As(urlErr.Err, &opErr) && opErr.Op == "dial"
}
