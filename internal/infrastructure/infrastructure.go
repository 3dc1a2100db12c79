// Package infrastructure provides core service initialization for application
// startup. It assembles common dependencies (logging, database, record store)
// that domain systems require.
package infrastructure

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/pkg/database"
	"github.com/JaimeStill/flowbit/pkg/lifecycle"
	"github.com/JaimeStill/flowbit/pkg/store"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, the transaction index database, and the record store.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  *sql.DB
	Store     store.System
}

// New creates an Infrastructure from the application configuration. It
// connects the database and record store eagerly so the service fails fast
// on unreachable backends, and registers shutdown hooks for both.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.Connect(lc.Context(), &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	records, err := store.New(lc.Context(), &cfg.Store)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Store:     records,
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := records.Close(); err != nil {
			logger.Error("store close failed", "error", err)
		}
		if err := db.Close(); err != nil {
			logger.Error("database close failed", "error", err)
		}
	})

	return infra, nil
}
