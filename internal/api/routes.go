package api

import (
	"net/http"

	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/transactions"
	"github.com/JaimeStill/flowbit/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	intake := newIntakeHandler(
		domain.Pipeline,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
	)

	routes.Register(
		mux,
		intake.routes(),
		transactions.NewHandler(
			domain.Transactions,
			runtime.Logger,
			runtime.Pagination,
		).Routes(),
	)
}
