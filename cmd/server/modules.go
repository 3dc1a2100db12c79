package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/flowbit/internal/api"
	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/infrastructure"
	"github.com/JaimeStill/flowbit/internal/sinks"
	"github.com/JaimeStill/flowbit/pkg/middleware"
	"github.com/JaimeStill/flowbit/pkg/module"
)

type Modules struct {
	API   *module.Module
	Sinks *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	sinksModule := sinks.NewModule("/sinks", infra.Logger)
	sinksModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:   apiModule,
		Sinks: sinksModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Sinks)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
