// Package app assembles the rendered site: embedded templates and assets,
// the public pages, the learner dashboard and the admin console.
package app

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/infrastructure"
	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/module"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

//go:embed layouts/*
var layoutFS embed.FS

//go:embed views/*
var viewFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Layouts wrapping every view.
const (
	LayoutPublic    = "public.html"
	LayoutDashboard = "dashboard.html"
	LayoutAdmin     = "admin.html"
)

var publicViews = []web.ViewDef{
	{Route: "/{$}", Template: "home.html", Title: "Learn languages by speaking them"},
	{Route: "/about", Template: "about.html", Title: "About"},
	{Route: "/pricing", Template: "pricing.html", Title: "Pricing"},
}

var errorViews = []web.ViewDef{
	{Template: pages.ViewNotFound, Title: "Not Found"},
	{Template: pages.ViewForbidden, Title: "Forbidden"},
	{Template: pages.ViewError, Title: "Something went wrong"},
}

var domainViews = []string{
	"auth_login.html",
	"auth_register.html",
	"auth_forgot.html",
	"auth_reset.html",
	"dashboard_home.html",
	"dashboard_profile.html",
	"dashboard_grammar.html",
	"dashboard_pronunciation.html",
	"dashboard_quizzes.html",
	"dashboard_quiz.html",
	"dashboard_conversation.html",
	"dashboard_conversation_chat.html",
	"dashboard_feedback.html",
	"admin_home.html",
	"admin_courses.html",
	"admin_course_form.html",
	"admin_lessons.html",
	"admin_lesson_form.html",
	"admin_users.html",
	"admin_user_form.html",
	"admin_roles.html",
	"admin_role_form.html",
	"admin_permissions.html",
	"admin_permission_form.html",
	"admin_feedback.html",
	"admin_progress.html",
}

// NewTemplateSet parses every view of the site for basePath.
func NewTemplateSet(basePath string) (*web.TemplateSet, error) {
	defs := make([]web.ViewDef, 0, len(publicViews)+len(errorViews)+len(domainViews))
	defs = append(defs, publicViews...)
	defs = append(defs, errorViews...)
	for _, name := range domainViews {
		defs = append(defs, web.ViewDef{Template: name})
	}

	return web.NewTemplateSet(layoutFS, viewFS, "layouts/*.html", "views", basePath, defs)
}

// App holds the mounted modules and the public site handler.
type App struct {
	Dashboard *module.Module
	Admin     *module.Module
	Public    http.Handler
}

// New builds the whole site on top of infra.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*App, error) {
	ts, err := NewTemplateSet("")
	if err != nil {
		return nil, err
	}

	runtime := NewRuntime(cfg, infra, ts)
	domain := NewDomain(runtime, cfg)
	return newModules(runtime, domain), nil
}

// Mount registers the modules on router. The public handler takes every
// path no module or native route claims.
func (a *App) Mount(router *module.Router) {
	router.Mount(a.Dashboard)
	router.Mount(a.Admin)
	router.HandleNativeHandler("/", a.Public)
}
