// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies every page module needs: logging, the session
// store, recording storage and the backend client.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/sessions"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/database"
	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/storage"
)

// Infrastructure holds the core systems required by all modules.
// Database is nil when sessions are kept in memory.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Sessions  sessions.System
	Cookie    sessions.Cookie
	Storage   storage.System
	Client    *apiclient.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Cookie: sessions.Cookie{
			Name:     cfg.Session.CookieName,
			Secure:   cfg.Session.IsSecure(),
			SameSite: cfg.Session.SameSiteMode(),
			TTL:      cfg.Session.TTLDuration(),
		},
	}

	switch cfg.Session.Store {
	case config.SessionStorePostgres:
		db, err := database.New(&cfg.Database, sessions.Migrations, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
		infra.Sessions = sessions.New(db.Connection(), cfg.Session.TTLDuration(), cfg.Session.PurgeIntervalDuration(), logger)
	default:
		logger.Warn("sessions are kept in memory and will not survive a restart")
		infra.Sessions = sessions.NewMemory(cfg.Session.TTLDuration(), cfg.Session.PurgeIntervalDuration(), logger)
	}

	store, err := storage.New(&cfg.App.Recordings, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	infra.Storage = store

	client, err := apiclient.New(&cfg.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("backend client init failed: %w", err)
	}
	infra.Client = client

	return infra, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Sessions.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("sessions start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
