package apiclient

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config describes how to reach the REST backend.
type Config struct {
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
	RefreshPath string `toml:"refresh_path"`
	UserAgent   string `toml:"user_agent"`
}

type Env struct {
	BaseURL     string
	Timeout     string
	RefreshPath string
	UserAgent   string
}

func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RefreshPath != "" {
		c.RefreshPath = overlay.RefreshPath
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000/api"
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
	if c.RefreshPath == "" {
		c.RefreshPath = "/auth/refresh"
	}
	if c.UserAgent == "" {
		c.UserAgent = "lingua-web"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.RefreshPath != "" {
		if v := os.Getenv(env.RefreshPath); v != "" {
			c.RefreshPath = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if c.RefreshPath == "" || c.RefreshPath[0] != '/' {
		return fmt.Errorf("refresh_path must start with /")
	}
	return nil
}
