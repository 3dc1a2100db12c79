// Package sinks hosts simulated downstream action endpoints. They stand in
// for a real CRM and risk system during local runs and integration tests,
// acknowledging every well-formed payload with a success envelope.
package sinks

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/flowbit/pkg/handlers"
	"github.com/JaimeStill/flowbit/pkg/module"
	"github.com/JaimeStill/flowbit/pkg/routes"
)

var errInvalidPayload = errors.New("request body is not a JSON object")

// NewModule creates the sinks module mounted at the given prefix.
func NewModule(prefix string, logger *slog.Logger) *module.Module {
	h := NewHandler(logger)

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	return module.New(prefix, mux)
}

// Handler provides the simulated CRM and risk alert endpoints.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler scoped to the sinks log domain.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("handler", "sinks")}
}

// Routes returns the route group definition for the simulated endpoints.
// The prefix is empty because the mounting module already strips its own.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/crm/escalate", Handler: h.CRMEscalate},
			{Method: "POST", Pattern: "/crm/log_and_close", Handler: h.CRMLogAndClose},
			{Method: "POST", Pattern: "/risk_alert", Handler: h.RiskAlert},
		},
	}
}

// CRMEscalate acknowledges an escalation ticket.
func (h *Handler) CRMEscalate(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.logger.Info("crm escalation received",
		"sender", payload["sender"],
		"issue_request", payload["issue_request"],
		"tone", payload["tone"],
	)

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "issue escalated in CRM",
	})
}

// CRMLogAndClose acknowledges a log-and-close ticket.
func (h *Handler) CRMLogAndClose(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.logger.Info("crm log-and-close received",
		"sender", payload["sender"],
		"issue_request", payload["issue_request"],
	)

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "issue logged and closed in CRM",
	})
}

// RiskAlert acknowledges a risk alert.
func (h *Handler) RiskAlert(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.logger.Warn("risk alert received",
		"alert_type", payload["alert_type"],
		"source", payload["source"],
	)

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "risk alert recorded",
	})
}

func decodePayload(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, errInvalidPayload
	}
	return payload, nil
}
