package permissions

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "admin_permissions.html"
	viewForm = "admin_permission_form.html"
)

var Columns = []datatable.Column[Permission]{
	{Key: "key", Header: "Key", Value: func(p Permission) string { return p.Key }, Sortable: true, Searchable: true},
	{Key: "resource", Header: "Resource", Value: Permission.Resource, Sortable: true},
	{Key: "description", Header: "Description", Value: func(p Permission) string { return p.Description }, Searchable: true},
}

type Handler struct {
	sys        System
	pages      *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

func NewHandler(sys System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, pages: pages, pagination: pagination, mount: mount, logger: logger}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/permissions",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("permissions:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("permissions:write")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/new", Handler: h.New},
					{Method: "POST", Pattern: "", Handler: h.Create},
					{Method: "GET", Pattern: "/{id}/edit", Handler: h.Edit},
					{Method: "POST", Pattern: "/{id}", Handler: h.Update},
					{Method: "POST", Pattern: "/{id}/delete", Handler: h.Delete},
				},
			},
		},
	}
}

type formData struct {
	Permission *Permission
	Action     string
}

// List filters, sorts and pages the full permission list in memory.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	table := &datatable.Table[Permission]{
		Columns: Columns,
		Rows:    all,
		RowKey:  func(p Permission) string { return p.ID.String() },
		Config:  h.pagination,
	}
	res, _ := table.Load(r.Context(), req)

	h.pages.Page(w, r, viewList, "Permissions", struct{ Table datatable.View }{
		Table: table.View(res, req, h.pages.Path(h.mount+"/permissions")),
	})
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, viewForm, "New permission", nil, nil, formData{Action: h.mount + "/permissions"})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	data := formData{Action: h.mount + "/permissions"}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "New permission", form, errs, data)
		return
	}

	if _, err := h.sys.Create(r.Context(), cmd); err != nil {
		h.formFailure(w, r, err, "New permission", form, data)
		return
	}

	h.pages.Redirect(w, r, h.mount+"/permissions", web.FlashSuccess, "Permission created.")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	all, err := h.sys.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	i := slices.IndexFunc(all, func(p Permission) bool { return p.ID == id })
	if i < 0 {
		h.pages.NotFound(w, r)
		return
	}
	p := all[i]

	form := map[string]string{"key": p.Key, "description": p.Description}
	h.pages.Form(w, r, http.StatusOK, viewForm, "Edit permission", form, nil, formData{
		Permission: &p,
		Action:     h.mount + "/permissions/" + p.ID.String(),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	data := formData{Permission: &Permission{ID: id}, Action: h.mount + "/permissions/" + id.String()}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit permission", form, errs, data)
		return
	}

	if _, err := h.sys.Update(r.Context(), id, cmd); err != nil {
		h.formFailure(w, r, err, "Edit permission", form, data)
		return
	}

	h.pages.Redirect(w, r, h.mount+"/permissions", web.FlashSuccess, "Permission saved.")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.mount+"/permissions", web.FlashSuccess, "Permission deleted.")
}

func (h *Handler) formFailure(w http.ResponseWriter, r *http.Request, err error, title string, form map[string]string, data formData) {
	errs := web.FormErrors{}
	switch {
	case errors.Is(err, ErrDuplicate):
		errs.Add("key", "This permission key already exists.")
	case errors.Is(err, ErrInvalid):
		errs.Add("key", err.Error())
	default:
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Form(w, r, MapHTTPStatus(err), viewForm, title, form, errs, data)
}
