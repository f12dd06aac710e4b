// Package web provides server-side rendering infrastructure: pre-parsed template sets,
// a router with a fallback handler, flash toasts, form error collection and static files.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a view by route, template file and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// Viewer is the signed-in user as seen by templates.
type Viewer struct {
	ID          string
	Name        string
	Email       string
	Roles       []string
	Permissions []string
}

// IsAdmin reports whether the viewer holds the admin role.
func (v *Viewer) IsAdmin() bool {
	if v == nil {
		return false
	}
	for _, r := range v.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// Can reports whether the viewer holds permission p. Admins hold every permission.
func (v *Viewer) Can(p string) bool {
	if v == nil {
		return false
	}
	if v.IsAdmin() {
		return true
	}
	for _, have := range v.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// ViewData is passed to every template. BasePath enables portable URLs via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Viewer   *Viewer
	Flash    *Flash
	Form     map[string]string
	Errors   FormErrors
	Data     any
}

// TemplateSet holds one pre-parsed template per view, each a clone of the shared layouts.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts once and clones them for every view so that
// each view may define its own "content" block. Parsing happens at startup and
// fails fast on the first broken template.
func NewTemplateSet(layoutFS, viewFS fs.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(Funcs(basePath)).ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(viewFS, viewSubdir)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]*template.Template, len(views))
	for _, v := range views {
		if _, ok := parsed[v.Template]; ok {
			continue
		}
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		parsed[v.Template] = t
	}

	return &TemplateSet{
		views:    parsed,
		basePath: basePath,
	}, nil
}

// BasePath returns the base path stamped into every ViewData.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layout for view into a buffer and writes it with status.
// Nothing is written when execution fails, so callers can still send an error page.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout, view string, data ViewData) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}

	data.BasePath = ts.basePath

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// PageHandler returns a handler that renders a static view.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{Title: view.Title, Flash: ConsumeFlash(w, r)}
		if err := ts.Render(w, http.StatusOK, layout, view.Template, data); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// ErrorHandler returns a handler that renders an error view with the given status.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{Title: view.Title}
		if err := ts.Render(w, status, layout, view.Template, data); err != nil {
			http.Error(w, http.StatusText(status), status)
		}
	}
}
