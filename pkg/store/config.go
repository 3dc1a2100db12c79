package store

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Redis connection settings for the record store.
type Config struct {
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	KeyPrefix   string `toml:"key_prefix"`
	TTLHours    int    `toml:"ttl_hours"`
	DialTimeout string `toml:"dial_timeout"`
}

// Env maps store config fields to environment variable names.
type Env struct {
	Addr        string
	Password    string
	DB          string
	KeyPrefix   string
	TTLHours    string
	DialTimeout string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
	if overlay.TTLHours != 0 {
		c.TTLHours = overlay.TTLHours
	}
	if overlay.DialTimeout != "" {
		c.DialTimeout = overlay.DialTimeout
	}
}

// TTL returns the record expiration as a duration. Zero means no expiration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "flowbit"
	}
	if c.TTLHours == 0 {
		c.TTLHours = 24
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if db, err := strconv.Atoi(v); err == nil {
				c.DB = db
			}
		}
	}
	if env.KeyPrefix != "" {
		if v := os.Getenv(env.KeyPrefix); v != "" {
			c.KeyPrefix = v
		}
	}
	if env.TTLHours != "" {
		if v := os.Getenv(env.TTLHours); v != "" {
			if hours, err := strconv.Atoi(v); err == nil {
				c.TTLHours = hours
			}
		}
	}
	if env.DialTimeout != "" {
		if v := os.Getenv(env.DialTimeout); v != "" {
			c.DialTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("store addr is required")
	}
	if c.TTLHours < 0 {
		return fmt.Errorf("store ttl_hours must be non-negative: %d", c.TTLHours)
	}
	if _, err := time.ParseDuration(c.DialTimeout); err != nil {
		return fmt.Errorf("invalid store dial_timeout %q: %w", c.DialTimeout, err)
	}
	return nil
}
