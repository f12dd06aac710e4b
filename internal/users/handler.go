package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/internal/roles"
	"github.com/JaimeStill/lingua-web/pkg/csvexport"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "admin_users.html"
	viewForm = "admin_user_form.html"
)

type Handler struct {
	sys        System
	roles      roles.System
	pages      *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

func NewHandler(sys System, roles roles.System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		roles:      roles,
		pages:      pages,
		pagination: pagination,
		mount:      mount,
		logger:     logger,
	}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/users",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("users:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/export.csv", Handler: h.Export},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("users:write")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{id}/edit", Handler: h.Edit},
					{Method: "POST", Pattern: "/{id}", Handler: h.Update},
					{Method: "POST", Pattern: "/{id}/delete", Handler: h.Delete},
					{Method: "POST", Pattern: "/bulk-delete", Handler: h.BulkDelete},
				},
			},
		},
	}
}

type listData struct {
	Table   datatable.View
	Filters Filters
	Roles   []roles.Role
}

// RoleOption is one checkbox on the user form.
type RoleOption struct {
	ID      uuid.UUID
	Name    string
	Checked bool
}

type formData struct {
	User   *User
	Roles  []RoleOption
	Action string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := pagination.PageRequestFromQuery(q, h.pagination)
	filters := FiltersFromQuery(q.Get)

	table := &datatable.Table[User]{
		Columns: Columns,
		RowKey:  func(u User) string { return u.ID.String() },
		Config:  h.pagination,
		PageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[User], error) {
			res, err := h.sys.List(ctx, req, filters)
			if err != nil {
				return pagination.PageResult[User]{}, err
			}
			return *res, nil
		},
	}

	res, err := table.Load(r.Context(), req)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	// The role filter still works without its options.
	allRoles, err := h.roles.List(r.Context())
	if err != nil {
		h.logger.Warn("role filter options unavailable", "error", err)
	}

	path := h.mount + "/users"
	if params := filters.values(); len(params) > 0 {
		path += "?" + params.Encode()
	}
	h.pages.Page(w, r, viewList, "Users", listData{
		Table:   table.View(res, req, h.pages.Path(path)),
		Filters: filters,
		Roles:   allRoles,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.All(r.Context(), FiltersFromQuery(r.URL.Query().Get))
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	name := csvexport.Filename("users", time.Now().Format("2006-01-02"))
	if err := csvexport.Respond(w, name, Columns, all); err != nil {
		h.logger.Error("user export failed", "error", err)
	}
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	options, err := h.roleOptions(r.Context(), u.HasRole)
	if err != nil {
		h.pages.Fail(w, r, err, roles.MapHTTPStatus(err))
		return
	}

	active := ""
	if u.Active {
		active = "on"
	}
	h.pages.Form(w, r, http.StatusOK, viewForm, "Edit user", map[string]string{"name": u.Name, "active": active}, nil, formData{
		User:   u,
		Roles:  options,
		Action: h.mount + "/users/" + u.ID.String(),
	})
}

// Update saves the profile fields, then the checked roles.
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
	var roleIDs []uuid.UUID
	for _, v := range r.PostForm["role"] {
		if rid, err := uuid.Parse(v); err == nil {
			roleIDs = append(roleIDs, rid)
		}
	}

	data := formData{User: &User{ID: id}, Action: h.mount + "/users/" + id.String()}
	if options, err := h.roleOptions(r.Context(), func(rid uuid.UUID) bool { return slices.Contains(roleIDs, rid) }); err == nil {
		data.Roles = options
	}

	cmd := CommandFromForm(form)
	errs := cmd.Validate()
	if !cmd.Active && h.isSelf(r, id) {
		errs.Add("active", ErrSelf.Error())
	}
	if errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit user", form, errs, data)
		return
	}

	if _, err := h.sys.Update(r.Context(), id, cmd); err != nil {
		if errors.Is(err, ErrInvalid) {
			errs.Add("form", err.Error())
			h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit user", form, errs, data)
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	if _, err := h.sys.AssignRoles(r.Context(), id, roleIDs); err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.mount+"/users", web.FlashSuccess, "User saved.")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}
	if h.isSelf(r, id) {
		h.pages.Redirect(w, r, h.mount+"/users", web.FlashError, "You cannot delete your own account.")
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.mount+"/users", web.FlashSuccess, "User deleted.")
}

// BulkDelete deletes the selected users, skipping the signed-in one, and
// summarises the outcome in a toast.
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var ids []uuid.UUID
	for _, v := range r.PostForm["id"] {
		id, err := uuid.Parse(v)
		if err != nil || h.isSelf(r, id) || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}

	back := h.mount + "/users"
	if q := r.PostForm.Get("return"); q != "" {
		if v, err := url.ParseQuery(q); err == nil {
			back += "?" + v.Encode()
		}
	}

	if len(ids) == 0 {
		h.pages.Redirect(w, r, back, web.FlashInfo, "No users selected.")
		return
	}

	report := h.sys.BulkDelete(r.Context(), ids)
	for id, err := range report.Failed {
		h.logger.Warn("bulk delete item failed", "id", id, "error", err)
	}

	switch {
	case report.OK():
		h.pages.Redirect(w, r, back, web.FlashSuccess, fmt.Sprintf("Deleted %d user(s).", len(report.Succeeded)))
	case len(report.Succeeded) == 0:
		h.pages.Redirect(w, r, back, web.FlashError, fmt.Sprintf("Could not delete %d user(s).", len(report.Failed)))
	default:
		h.pages.Redirect(w, r, back, web.FlashError,
			fmt.Sprintf("Deleted %d user(s); %d could not be deleted.", len(report.Succeeded), len(report.Failed)))
	}
}

func (h *Handler) isSelf(r *http.Request, id uuid.UUID) bool {
	v := web.ViewerFrom(r.Context())
	return v != nil && v.ID == id.String()
}

func (h *Handler) roleOptions(ctx context.Context, checked func(uuid.UUID) bool) ([]RoleOption, error) {
	all, err := h.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoleOption, len(all))
	for i, role := range all {
		out[i] = RoleOption{ID: role.ID, Name: role.Name, Checked: checked(role.ID)}
	}
	return out, nil
}
