package main

import (
	"time"

	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/infrastructure"
	"github.com/JaimeStill/lingua-web/internal/server"
	"github.com/JaimeStill/lingua-web/web/app"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	site, err := app.New(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	site.Mount(router)

	handler := buildMiddleware(cfg, infra.Logger).Apply(router)

	infra.Logger.Info(
		"server initialized",
		"name", cfg.App.Name,
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"backend", cfg.Backend.BaseURL,
		"session_store", cfg.Session.Store,
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, handler, cfg.ShutdownTimeoutDuration(), infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within the timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
