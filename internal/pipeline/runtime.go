package pipeline

import (
	"log/slog"

	"github.com/JaimeStill/flowbit/internal/dispatch"
	"github.com/JaimeStill/flowbit/internal/inference"
	"github.com/JaimeStill/flowbit/internal/transactions"
)

// Runtime carries the dependencies every pipeline node needs. It is
// constructed once per service and shared across runs; per-run state
// lives in the graph state bag and the transaction record.
type Runtime struct {
	Classifier inference.Client
	Extractor  inference.Client
	Records    transactions.System
	Dispatcher dispatch.System
	Logger     *slog.Logger
}
