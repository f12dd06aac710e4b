// Package pages renders views with the per-request context every page needs
// (viewer, flash, form state) and turns errors into the right page or redirect.
package pages

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

// Views rendered for failures.
const (
	ViewNotFound  = "404.html"
	ViewForbidden = "403.html"
	ViewError     = "500.html"
)

// Renderer renders views inside one layout.
type Renderer struct {
	ts     *web.TemplateSet
	layout string
	logger *slog.Logger
}

func New(ts *web.TemplateSet, layout string, logger *slog.Logger) *Renderer {
	return &Renderer{ts: ts, layout: layout, logger: logger}
}

// WithLayout returns a renderer using another layout.
func (p *Renderer) WithLayout(layout string) *Renderer {
	return &Renderer{ts: p.ts, layout: layout, logger: p.logger}
}

// Path prefixes a site path with the base path.
func (p *Renderer) Path(path string) string {
	return p.ts.BasePath() + path
}

// Page renders view with data.
func (p *Renderer) Page(w http.ResponseWriter, r *http.Request, view, title string, data any) {
	p.render(w, r, http.StatusOK, view, web.ViewData{Title: title, Data: data})
}

// Form re-renders a form with the submitted values and field errors.
func (p *Renderer) Form(w http.ResponseWriter, r *http.Request, status int, view, title string, form map[string]string, errs web.FormErrors, data any) {
	p.render(w, r, status, view, web.ViewData{
		Title:  title,
		Form:   form,
		Errors: errs,
		Data:   data,
	})
}

// Redirect sets a toast and redirects with 303.
func (p *Renderer) Redirect(w http.ResponseWriter, r *http.Request, path, level, message string) {
	if message != "" {
		web.SetFlash(w, level, message)
	}
	web.Redirect(w, r, p.Path(path))
}

func (p *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, ViewNotFound, web.ViewData{Title: "Not Found"})
}

func (p *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusForbidden, ViewForbidden, web.ViewData{Title: "Forbidden"})
}

// Fail handles an error from a backend call. An expired session redirects to
// sign-in; 404 and 403 render their pages; anything else renders the error
// page with the backend's message as a toast.
func (p *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error, status int) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		web.SetFlash(w, web.FlashInfo, apiclient.MessageOf(err))
		web.Redirect(w, r, LoginURL(p.ts.BasePath(), r))
		return
	}

	switch status {
	case http.StatusNotFound:
		p.NotFound(w, r)
		return
	case http.StatusForbidden:
		p.Forbidden(w, r)
		return
	}

	if status < 500 {
		status = http.StatusBadGateway
	}
	p.logger.Error("page failed", "path", r.URL.Path, "status", status, "error", err)
	p.render(w, r, status, ViewError, web.ViewData{
		Title: "Something went wrong",
		Flash: &web.Flash{Level: web.FlashError, Message: apiclient.MessageOf(err)},
	})
}

// LoginURL is the sign-in page with a next parameter pointing back at r.
// The raw request URI is used so module prefixes stripped by routing survive.
func LoginURL(basePath string, r *http.Request) string {
	next := r.RequestURI
	if next == "" {
		next = r.URL.RequestURI()
	}
	if r.Method != http.MethodGet {
		next, _, _ = strings.Cut(next, "?")
	}
	return basePath + "/login?" + url.Values{"next": {next}}.Encode()
}

func (p *Renderer) render(w http.ResponseWriter, r *http.Request, status int, view string, data web.ViewData) {
	data.Viewer = web.ViewerFrom(r.Context())
	if data.Flash == nil {
		data.Flash = web.ConsumeFlash(w, r)
	}
	if data.Form == nil {
		data.Form = map[string]string{}
	}
	if data.Errors == nil {
		data.Errors = web.FormErrors{}
	}

	if err := p.ts.Render(w, status, p.layout, view, data); err != nil {
		p.logger.Error("render failed", "view", view, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
