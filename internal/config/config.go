// Package config provides layered configuration for the flowbit service:
// TOML base file, environment overlay file, and environment variable
// overrides, finalized with defaults and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/flowbit/pkg/database"
	"github.com/JaimeStill/flowbit/pkg/store"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFlowbitEnv             = "FLOWBIT_ENV"
	EnvFlowbitShutdownTimeout = "FLOWBIT_SHUTDOWN_TIMEOUT"
	EnvFlowbitVersion         = "FLOWBIT_VERSION"
)

var databaseEnv = &database.Env{
	Host:     "FLOWBIT_DB_HOST",
	Port:     "FLOWBIT_DB_PORT",
	User:     "FLOWBIT_DB_USER",
	Password: "FLOWBIT_DB_PASSWORD",
	Database: "FLOWBIT_DB_NAME",
	SSLMode:  "FLOWBIT_DB_SSL_MODE",
}

var storeEnv = &store.Env{
	Addr:        "FLOWBIT_REDIS_ADDR",
	Password:    "FLOWBIT_REDIS_PASSWORD",
	DB:          "FLOWBIT_REDIS_DB",
	KeyPrefix:   "FLOWBIT_REDIS_KEY_PREFIX",
	TTLHours:    "FLOWBIT_REDIS_TTL_HOURS",
	DialTimeout: "FLOWBIT_REDIS_DIAL_TIMEOUT",
}

// Config is the root configuration for the flowbit service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Store           store.Config    `toml:"store"`
	API             APIConfig       `toml:"api"`
	Agents          AgentsConfig    `toml:"agents"`
	Dispatch        DispatchConfig  `toml:"dispatch"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the FLOWBIT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFlowbitEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Store.Merge(&overlay.Store)
	c.API.Merge(&overlay.API)
	c.Agents.Merge(&overlay.Agents)
	c.Dispatch.Merge(&overlay.Dispatch)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Store.Finalize(storeEnv); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agents.Finalize(); err != nil {
		return fmt.Errorf("agents: %w", err)
	}
	if err := c.Dispatch.Finalize(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFlowbitShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFlowbitVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFlowbitEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
