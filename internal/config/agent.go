package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "FLOWBIT_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "FLOWBIT_AGENT_BASE_URL"
	EnvAgentToken        = "FLOWBIT_AGENT_TOKEN"
	EnvAgentDeployment   = "FLOWBIT_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "FLOWBIT_AGENT_API_VERSION"
	EnvAgentAuthType     = "FLOWBIT_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "FLOWBIT_AGENT_MODEL_NAME"
)

// AgentsConfig holds the inference agent configurations for the pipeline.
// Classification and structured extraction get separate agents so
// providers and models can differ per concern.
type AgentsConfig struct {
	Classifier gaconfig.AgentConfig `toml:"classifier"`
	Extractor  gaconfig.AgentConfig `toml:"extractor"`
}

// Finalize applies the three-phase finalize pattern to each agent config:
// defaults from go-agents DefaultAgentConfig, environment variable
// overrides, and validation. Both agents share the same provider
// environment variables.
func (c *AgentsConfig) Finalize() error {
	if c.Classifier.Name == "" {
		c.Classifier.Name = "classifier"
	}
	if c.Extractor.Name == "" {
		c.Extractor.Name = "extractor"
	}

	if err := finalizeAgent(&c.Classifier); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := finalizeAgent(&c.Extractor); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay for each agent.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	c.Classifier.Merge(&overlay.Classifier)
	c.Extractor.Merge(&overlay.Extractor)
}

func finalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
