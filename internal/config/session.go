package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	EnvSessionCookieName    = "SESSION_COOKIE_NAME"
	EnvSessionSecure        = "SESSION_SECURE"
	EnvSessionTTL           = "SESSION_TTL"
	EnvSessionPurgeInterval = "SESSION_PURGE_INTERVAL"
	EnvSessionStore         = "SESSION_STORE"
)

// Session store backends.
const (
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

// SessionConfig controls the browser session cookie and how long server-side
// sessions live.
type SessionConfig struct {
	Store         string `toml:"store"`
	CookieName    string `toml:"cookie_name"`
	Secure        *bool  `toml:"secure"`
	SameSite      string `toml:"same_site"`
	TTL           string `toml:"ttl"`
	PurgeInterval string `toml:"purge_interval"`
}

func (c *SessionConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

func (c *SessionConfig) PurgeIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PurgeInterval)
	return d
}

// IsSecure reports whether the cookie carries the Secure attribute.
func (c *SessionConfig) IsSecure() bool {
	return c.Secure != nil && *c.Secure
}

func (c *SessionConfig) SameSiteMode() http.SameSite {
	switch c.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (c *SessionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *SessionConfig) Merge(overlay *SessionConfig) {
	if overlay.Store != "" {
		c.Store = overlay.Store
	}
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.Secure != nil {
		c.Secure = overlay.Secure
	}
	if overlay.SameSite != "" {
		c.SameSite = overlay.SameSite
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.PurgeInterval != "" {
		c.PurgeInterval = overlay.PurgeInterval
	}
}

func (c *SessionConfig) loadDefaults() {
	if c.Store == "" {
		c.Store = SessionStorePostgres
	}
	if c.CookieName == "" {
		c.CookieName = "lingua_session"
	}
	if c.Secure == nil {
		secure := true
		c.Secure = &secure
	}
	if c.SameSite == "" {
		c.SameSite = "lax"
	}
	if c.TTL == "" {
		c.TTL = "168h"
	}
	if c.PurgeInterval == "" {
		c.PurgeInterval = "15m"
	}
}

func (c *SessionConfig) loadEnv() {
	if v := os.Getenv(EnvSessionStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvSessionCookieName); v != "" {
		c.CookieName = v
	}
	if v := os.Getenv(EnvSessionSecure); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Secure = &b
		}
	}
	if v := os.Getenv(EnvSessionTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvSessionPurgeInterval); v != "" {
		c.PurgeInterval = v
	}
}

func (c *SessionConfig) validate() error {
	if c.Store != SessionStorePostgres && c.Store != SessionStoreMemory {
		return fmt.Errorf("invalid store %q", c.Store)
	}
	if c.CookieName == "" {
		return fmt.Errorf("cookie_name required")
	}
	switch c.SameSite {
	case "lax", "strict":
	case "none":
		if !c.IsSecure() {
			return fmt.Errorf("same_site none requires secure cookies")
		}
	default:
		return fmt.Errorf("invalid same_site %q", c.SameSite)
	}
	if d, err := time.ParseDuration(c.TTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid ttl %q", c.TTL)
	}
	if d, err := time.ParseDuration(c.PurgeInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid purge_interval %q", c.PurgeInterval)
	}
	return nil
}
