package app

import (
	"net/http"

	"github.com/JaimeStill/lingua-web/internal/auth"
	"github.com/JaimeStill/lingua-web/internal/courses"
	"github.com/JaimeStill/lingua-web/internal/dashboard"
	"github.com/JaimeStill/lingua-web/internal/feedback"
	"github.com/JaimeStill/lingua-web/internal/grammar"
	"github.com/JaimeStill/lingua-web/internal/lessons"
	"github.com/JaimeStill/lingua-web/internal/permissions"
	"github.com/JaimeStill/lingua-web/internal/progress"
	"github.com/JaimeStill/lingua-web/internal/pronunciation"
	"github.com/JaimeStill/lingua-web/internal/quizzes"
	"github.com/JaimeStill/lingua-web/internal/roles"
	"github.com/JaimeStill/lingua-web/internal/scenarios"
	"github.com/JaimeStill/lingua-web/internal/users"
	"github.com/JaimeStill/lingua-web/pkg/module"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	mountDashboard = "/dashboard"
	mountAdmin     = "/admin"
)

// shared holds handlers whose routes span more than one area of the site.
type shared struct {
	auth     *auth.Handler
	feedback *feedback.Handler
}

func newModules(runtime *Runtime, domain *Domain) *App {
	h := shared{
		auth:     auth.NewHandler(domain.Auth, runtime.Cookie, runtime.Public, runtime.Learner, runtime.Logger),
		feedback: feedback.NewHandler(domain.Feedback, runtime.Admin, runtime.Learner, runtime.Pagination, mountAdmin, runtime.Logger),
	}

	return &App{
		Dashboard: dashboardModule(runtime, domain, h),
		Admin:     adminModule(runtime, domain, h),
		Public:    publicHandler(runtime, h),
	}
}

func publicHandler(runtime *Runtime, h shared) http.Handler {
	r := web.NewRouter()
	r.SetFallback(runtime.Public.NotFound)

	pages := map[string]any{
		"home.html":    struct{ Features []Feature }{features},
		"about.html":   struct{ Languages []string }{languages},
		"pricing.html": struct{ Plans []Plan }{plans},
	}
	for _, view := range publicViews {
		r.HandleFunc("GET "+view.Route, marketingHandler(runtime.Public, view.Template, view.Title, pages[view.Template]))
	}

	routes.Register(r, h.auth.Routes(runtime.Auth.GuestOnly))

	r.Handle("GET /static/", web.Static(staticFS, "static", "/static/"))

	return runtime.Auth.Authenticate(r)
}

func dashboardModule(runtime *Runtime, domain *Domain, h shared) *module.Module {
	p := runtime.Learner
	r := web.NewRouter()
	r.SetFallback(p.NotFound)

	for _, g := range []routes.Group{
		dashboard.NewHandler(domain.Dashboard, p, runtime.Logger).Routes(),
		grammar.NewHandler(domain.Grammar, p, runtime.Logger).Routes(),
		pronunciation.NewHandler(domain.Pronunciation, p, runtime.Logger).Routes(),
		quizzes.NewHandler(domain.Quizzes, p, runtime.Logger).Routes(),
		scenarios.NewHandler(domain.Scenarios, p, runtime.Logger).Routes(),
		h.feedback.LearnerRoutes(),
		h.auth.ProfileRoutes(),
	} {
		routes.Register(r, g)
	}

	m := module.New(mountDashboard, r)
	m.Use(runtime.Auth.Authenticate)
	m.Use(runtime.Auth.RequireSession)
	return m
}

func adminModule(runtime *Runtime, domain *Domain, h shared) *module.Module {
	p := runtime.Admin
	guard := routes.Guard(runtime.Auth.RequirePermission)
	r := web.NewRouter()
	r.SetFallback(p.NotFound)

	r.Handle("GET /{$}", runtime.Auth.RequireAnyPermission(adminPermissions()...)(adminHome(p)))

	for _, g := range []routes.Group{
		courses.NewHandler(domain.Courses, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
		lessons.NewHandler(domain.Lessons, domain.Courses, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
		users.NewHandler(domain.Users, domain.Roles, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
		roles.NewHandler(domain.Roles, domain.Permissions, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
		permissions.NewHandler(domain.Permissions, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
		h.feedback.AdminRoutes(guard),
		progress.NewHandler(domain.Progress, p, runtime.Pagination, mountAdmin, runtime.Logger).Routes(guard),
	} {
		routes.Register(r, g)
	}

	m := module.New(mountAdmin, r)
	m.Use(runtime.Auth.Authenticate)
	m.Use(runtime.Auth.RequireSession)
	return m
}
