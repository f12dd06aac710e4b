package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/internal/permissions"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "admin_roles.html"
	viewForm = "admin_role_form.html"
)

var Columns = []datatable.Column[Role]{
	{Key: "name", Header: "Name", Value: func(r Role) string { return r.Name }, Sortable: true, Searchable: true},
	{Key: "description", Header: "Description", Value: func(r Role) string { return r.Description }, Searchable: true},
	{Key: "permissions", Header: "Permissions", Value: func(r Role) string { return strconv.Itoa(len(r.Permissions)) }, Sortable: true},
	{Key: "user_count", Header: "Users", Value: func(r Role) string { return strconv.Itoa(r.UserCount) }, Sortable: true},
}

type Handler struct {
	sys         System
	permissions permissions.System
	pages       *pages.Renderer
	pagination  pagination.Config
	mount       string
	logger      *slog.Logger
}

func NewHandler(sys System, permissions permissions.System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:         sys,
		permissions: permissions,
		pages:       pages,
		pagination:  pagination,
		mount:       mount,
		logger:      logger,
	}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/roles",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("roles:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("roles:write")},
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

// PermissionOption is one checkbox on the role form.
type PermissionOption struct {
	permissions.Permission
	Checked bool
}

type formData struct {
	Role        *Role
	Permissions []PermissionOption
	Action      string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	table := &datatable.Table[Role]{
		Columns: Columns,
		Rows:    all,
		RowKey:  func(r Role) string { return r.ID.String() },
		Config:  h.pagination,
	}
	res, _ := table.Load(r.Context(), req)

	h.pages.Page(w, r, viewList, "Roles", struct{ Table datatable.View }{
		Table: table.View(res, req, h.pages.Path(h.mount+"/roles")),
	})
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, viewForm, "New role", nil, nil, formData{Action: h.mount + "/roles"})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	data := formData{Action: h.mount + "/roles"}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "New role", form, errs, data)
		return
	}

	role, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.formFailure(w, r, err, "New role", form, data)
		return
	}

	h.pages.Redirect(w, r, h.mount+"/roles/"+role.ID.String()+"/edit", web.FlashSuccess, "Role created. Choose its permissions.")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	role, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	options, err := h.options(r, role.Grants)
	if err != nil {
		h.pages.Fail(w, r, err, permissions.MapHTTPStatus(err))
		return
	}

	form := map[string]string{"name": role.Name, "description": role.Description}
	h.pages.Form(w, r, http.StatusOK, viewForm, "Edit role", form, nil, formData{
		Role:        role,
		Permissions: options,
		Action:      h.mount + "/roles/" + role.ID.String(),
	})
}

// Update saves the name and description, then applies the checked permissions.
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
	var checked []uuid.UUID
	for _, v := range r.PostForm["permission"] {
		if pid, err := uuid.Parse(v); err == nil {
			checked = append(checked, pid)
		}
	}

	data := formData{Role: &Role{ID: id}, Action: h.mount + "/roles/" + id.String()}
	if options, err := h.options(r, func(pid uuid.UUID) bool { return slices.Contains(checked, pid) }); err == nil {
		data.Permissions = options
	}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit role", form, errs, data)
		return
	}

	if _, err := h.sys.Update(r.Context(), id, cmd); err != nil {
		h.formFailure(w, r, err, "Edit role", form, data)
		return
	}

	change, err := h.sys.SetPermissions(r.Context(), id, checked)
	if err != nil {
		if errors.Is(err, ErrPartial) {
			h.logger.Warn("partial permission update", "role_id", id, "error", err)
			h.pages.Redirect(w, r, h.mount+"/roles/"+id.String()+"/edit", web.FlashError,
				"Some permission changes could not be saved. Review the role and try again.")
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	msg := "Role saved."
	if n := len(change.Granted) + len(change.Revoked); n > 0 {
		msg = "Role saved with " + strconv.Itoa(n) + " permission change(s)."
	}
	h.pages.Redirect(w, r, h.mount+"/roles", web.FlashSuccess, msg)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
		case errors.Is(err, ErrProtected):
			h.pages.Redirect(w, r, h.mount+"/roles", web.FlashError, "The admin role cannot be deleted.")
			return
		default:
			h.pages.Fail(w, r, err, MapHTTPStatus(err))
			return
		}
	}

	h.pages.Redirect(w, r, h.mount+"/roles", web.FlashSuccess, "Role deleted.")
}

func (h *Handler) options(r *http.Request, checked func(uuid.UUID) bool) ([]PermissionOption, error) {
	all, err := h.permissions.List(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]PermissionOption, len(all))
	for i, p := range all {
		out[i] = PermissionOption{Permission: p, Checked: checked(p.ID)}
	}
	return out, nil
}

func (h *Handler) formFailure(w http.ResponseWriter, r *http.Request, err error, title string, form map[string]string, data formData) {
	errs := web.FormErrors{}
	switch {
	case errors.Is(err, ErrDuplicate):
		errs.Add("name", "Another role already uses this name.")
	case errors.Is(err, ErrProtected):
		errs.Add("name", "The admin role cannot be renamed.")
	case errors.Is(err, ErrInvalid):
		errs.Add("form", err.Error())
	default:
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Form(w, r, MapHTTPStatus(err), viewForm, title, form, errs, data)
}
