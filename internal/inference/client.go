// Package inference wraps the language model capability behind a narrow
// prompt-completion interface so pipeline stages depend on a constructed
// client rather than process-wide state.
package inference

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Client is the prompt-completion contract pipeline stages consume.
// Implementations return ErrInference-wrapped failures; callers decide
// how to degrade.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type agentClient struct {
	cfg gaconfig.AgentConfig
}

// NewClient creates a Client backed by the configured agent. A fresh
// agent is constructed per call so clients are safe for concurrent use.
func NewClient(cfg gaconfig.AgentConfig) Client {
	return &agentClient{cfg: cfg}
}

func (c *agentClient) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrInference, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInference, err)
	}

	return resp.Content(), nil
}
