package transactions

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/flowbit/pkg/handlers"
	"github.com/JaimeStill/flowbit/pkg/pagination"
	"github.com/JaimeStill/flowbit/pkg/routes"
)

// Handler provides HTTP endpoints for transaction audit retrieval.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and
// pagination config.
func NewHandler(sys System, logger *slog.Logger, pg pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "transactions"),
		pagination: pg,
	}
}

// Routes returns the route group definition for transaction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/transactions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns a paginated list of transaction summaries, newest first,
// with optional format/intent/chained_action/final_status query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r, &h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the full audit record for one transaction id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingID)
		return
	}

	record, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}
