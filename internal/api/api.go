// Package api assembles the API module: domain systems, the intake
// pipeline, and route registration behind the configured base path.
package api

import (
	"net/http"

	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/infrastructure"
	"github.com/JaimeStill/flowbit/pkg/middleware"
	"github.com/JaimeStill/flowbit/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
