package main

import (
	"log/slog"

	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/pkg/middleware"
)

// buildMiddleware creates the stack wrapping every request.
func buildMiddleware(cfg *config.Config, logger *slog.Logger) middleware.System {
	sys := middleware.New()
	sys.Use(middleware.RequestID())
	sys.Use(middleware.Logger(logger))
	sys.Use(middleware.CORS(&cfg.App.CORS))
	sys.Use(middleware.TrimSlash())
	return sys
}
