package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/docker/go-units"
)

// Config controls where recordings are kept and how large they may be.
type Config struct {
	BasePath      string `toml:"base_path"`
	MaxUploadSize string `toml:"max_upload_size"`
	Retention     string `toml:"retention"`

	maxUploadBytes int64
}

type Env struct {
	BasePath      string
	MaxUploadSize string
	Retention     string
}

// MaxUploadSizeBytes is MaxUploadSize in bytes. Valid after Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadBytes
}

// RetentionDuration is how long a stored recording is kept before purge.
func (c *Config) RetentionDuration() time.Duration {
	d, _ := time.ParseDuration(c.Retention)
	return d
}

// HumanMaxUploadSize renders the limit for error messages, e.g. "10MB".
func (c *Config) HumanMaxUploadSize() string {
	return units.HumanSize(float64(c.maxUploadBytes))
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.Retention != "" {
		c.Retention = overlay.Retention
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/recordings"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.Retention == "" {
		c.Retention = "24h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
	if env.Retention != "" {
		if v := os.Getenv(env.Retention); v != "" {
			c.Retention = v
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadBytes = size

	if d, err := time.ParseDuration(c.Retention); err != nil || d <= 0 {
		return fmt.Errorf("invalid retention %q", c.Retention)
	}
	return nil
}
