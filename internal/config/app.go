package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/lingua-web/pkg/bulk"
	"github.com/JaimeStill/lingua-web/pkg/middleware"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/storage"
)

const (
	EnvAppName             = "APP_NAME"
	EnvAppGrammarMaxLength = "APP_GRAMMAR_MAX_LENGTH"
	EnvAppBulkWorkers      = "APP_BULK_WORKERS"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "APP_CORS_ENABLED",
	Origins:          "APP_CORS_ORIGINS",
	AllowedMethods:   "APP_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "APP_CORS_ALLOWED_HEADERS",
	AllowCredentials: "APP_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "APP_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "APP_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "APP_PAGINATION_MAX_PAGE_SIZE",
}

var storageEnv = &storage.Env{
	BasePath:      "APP_RECORDINGS_PATH",
	MaxUploadSize: "APP_RECORDINGS_MAX_UPLOAD_SIZE",
	Retention:     "APP_RECORDINGS_RETENTION",
}

// AppConfig holds settings of the rendered application itself.
type AppConfig struct {
	Name             string                `toml:"name"`
	GrammarMaxLength int                   `toml:"grammar_max_length"`
	BulkWorkers      int                   `toml:"bulk_workers"`
	CORS             middleware.CORSConfig `toml:"cors"`
	Pagination       pagination.Config     `toml:"pagination"`
	Recordings       storage.Config        `toml:"recordings"`
}

func (c *AppConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.GrammarMaxLength < 1 {
		return fmt.Errorf("grammar_max_length must be positive")
	}
	if c.BulkWorkers < 1 {
		return fmt.Errorf("bulk_workers must be positive")
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Recordings.Finalize(storageEnv); err != nil {
		return fmt.Errorf("recordings: %w", err)
	}
	return nil
}

func (c *AppConfig) Merge(overlay *AppConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.GrammarMaxLength != 0 {
		c.GrammarMaxLength = overlay.GrammarMaxLength
	}
	if overlay.BulkWorkers != 0 {
		c.BulkWorkers = overlay.BulkWorkers
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Recordings.Merge(&overlay.Recordings)
}

func (c *AppConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "Lingua"
	}
	if c.GrammarMaxLength == 0 {
		c.GrammarMaxLength = 5000
	}
	if c.BulkWorkers == 0 {
		c.BulkWorkers = bulk.DefaultWorkers
	}
}

func (c *AppConfig) loadEnv() {
	if v := os.Getenv(EnvAppName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvAppGrammarMaxLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GrammarMaxLength = n
		}
	}
	if v := os.Getenv(EnvAppBulkWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BulkWorkers = n
		}
	}
}
