package app

import (
	"github.com/JaimeStill/lingua-web/internal/auth"
	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/infrastructure"
	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

// Runtime extends Infrastructure with the renderers and guards shared by
// page handlers.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Public     *pages.Renderer
	Learner    *pages.Renderer
	Admin      *pages.Renderer
	Auth       *auth.Middleware
}

// NewRuntime creates a runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, ts *web.TemplateSet) *Runtime {
	logger := infra.Logger.With("module", "app")
	public := pages.New(ts, LayoutPublic, logger)

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Sessions:  infra.Sessions,
			Cookie:    infra.Cookie,
			Storage:   infra.Storage,
			Client:    infra.Client,
		},
		Pagination: cfg.App.Pagination,
		Public:     public,
		Learner:    public.WithLayout(LayoutDashboard),
		Admin:      public.WithLayout(LayoutAdmin),
		Auth:       auth.NewMiddleware(infra.Sessions, infra.Client, infra.Cookie, public, logger),
	}
}
