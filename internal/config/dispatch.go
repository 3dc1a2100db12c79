package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDispatchCRMEscalateURL    = "FLOWBIT_DISPATCH_CRM_ESCALATE_URL"
	EnvDispatchCRMLogAndCloseURL = "FLOWBIT_DISPATCH_CRM_LOG_AND_CLOSE_URL"
	EnvDispatchRiskAlertURL      = "FLOWBIT_DISPATCH_RISK_ALERT_URL"
	EnvDispatchTimeout           = "FLOWBIT_DISPATCH_TIMEOUT"
)

// DispatchConfig holds the downstream action endpoint URLs and the HTTP
// timeout applied to every dispatch call.
type DispatchConfig struct {
	CRMEscalateURL    string `toml:"crm_escalate_url"`
	CRMLogAndCloseURL string `toml:"crm_log_and_close_url"`
	RiskAlertURL      string `toml:"risk_alert_url"`
	Timeout           string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *DispatchConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DispatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DispatchConfig) Merge(overlay *DispatchConfig) {
	if overlay.CRMEscalateURL != "" {
		c.CRMEscalateURL = overlay.CRMEscalateURL
	}
	if overlay.CRMLogAndCloseURL != "" {
		c.CRMLogAndCloseURL = overlay.CRMLogAndCloseURL
	}
	if overlay.RiskAlertURL != "" {
		c.RiskAlertURL = overlay.RiskAlertURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *DispatchConfig) loadDefaults() {
	if c.CRMEscalateURL == "" {
		c.CRMEscalateURL = "http://localhost:8080/sinks/crm/escalate"
	}
	if c.CRMLogAndCloseURL == "" {
		c.CRMLogAndCloseURL = "http://localhost:8080/sinks/crm/log_and_close"
	}
	if c.RiskAlertURL == "" {
		c.RiskAlertURL = "http://localhost:8080/sinks/risk_alert"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *DispatchConfig) loadEnv() {
	if v := os.Getenv(EnvDispatchCRMEscalateURL); v != "" {
		c.CRMEscalateURL = v
	}
	if v := os.Getenv(EnvDispatchCRMLogAndCloseURL); v != "" {
		c.CRMLogAndCloseURL = v
	}
	if v := os.Getenv(EnvDispatchRiskAlertURL); v != "" {
		c.RiskAlertURL = v
	}
	if v := os.Getenv(EnvDispatchTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *DispatchConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
