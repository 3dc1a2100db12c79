package api

import (
	"github.com/JaimeStill/flowbit/internal/config"
	"github.com/JaimeStill/flowbit/internal/dispatch"
	"github.com/JaimeStill/flowbit/internal/inference"
	"github.com/JaimeStill/flowbit/internal/pipeline"
	"github.com/JaimeStill/flowbit/internal/transactions"
)

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Transactions transactions.System
	Dispatcher   dispatch.System
	Pipeline     *pipeline.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	transactionsSystem := transactions.NewSystem(
		runtime.Store,
		runtime.Database,
		runtime.Logger,
	)

	dispatchSystem := dispatch.New(
		&cfg.Dispatch,
		transactionsSystem,
		runtime.Logger,
	)

	pipelineRuntime := &pipeline.Runtime{
		Classifier: inference.NewClient(cfg.Agents.Classifier),
		Extractor:  inference.NewClient(cfg.Agents.Extractor),
		Records:    transactionsSystem,
		Dispatcher: dispatchSystem,
		Logger:     runtime.Logger.With("system", "pipeline"),
	}

	return &Domain{
		Transactions: transactionsSystem,
		Dispatcher:   dispatchSystem,
		Pipeline:     pipelineRuntime,
	}
}
