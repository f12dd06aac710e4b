package courses

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/csvexport"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "admin_courses.html"
	viewForm = "admin_course_form.html"
)

// Handler serves the admin course pages.
type Handler struct {
	sys        System
	pages      *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

// NewHandler creates the handler for routes mounted under mount (e.g. "/admin").
func NewHandler(sys System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		pages:      pages,
		pagination: pagination,
		mount:      mount,
		logger:     logger,
	}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/courses",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("courses:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/export.csv", Handler: h.Export},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("courses:write")},
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

type listData struct {
	Table datatable.View
}

type formData struct {
	Course *Course
	Levels []string
	Action string
}

func (h *Handler) table() *datatable.Table[Course] {
	return &datatable.Table[Course]{
		Columns: Columns,
		RowKey:  func(c Course) string { return c.ID.String() },
		Config:  h.pagination,
		PageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Course], error) {
			res, err := h.sys.List(ctx, req)
			if err != nil {
				return pagination.PageResult[Course]{}, err
			}
			return *res, nil
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	table := h.table()

	res, err := table.Load(r.Context(), req)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Page(w, r, viewList, "Courses", listData{
		Table: table.View(res, req, h.pages.Path(h.mount+"/courses")),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.All(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	name := csvexport.Filename("courses", time.Now().Format("2006-01-02"))
	if err := csvexport.Respond(w, name, Columns, all); err != nil {
		h.logger.Error("course export failed", "error", err)
	}
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, viewForm, "New course", map[string]string{"level": "A1"}, nil, formData{
		Levels: Levels,
		Action: h.mount + "/courses",
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	data := formData{Levels: Levels, Action: h.mount + "/courses"}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "New course", form, errs, data)
		return
	}

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.formFailure(w, r, err, "New course", form, data)
		return
	}

	h.pages.Redirect(w, r, h.mount+"/courses/"+c.ID.String()+"/edit", web.FlashSuccess, "Course created.")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Form(w, r, http.StatusOK, viewForm, "Edit course", c.FormValues(), nil, formData{
		Course: c,
		Levels: Levels,
		Action: h.mount + "/courses/" + c.ID.String(),
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
	data := formData{Course: &Course{ID: id}, Levels: Levels, Action: h.mount + "/courses/" + id.String()}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit course", form, errs, data)
		return
	}

	if _, err := h.sys.Update(r.Context(), id, cmd); err != nil {
		h.formFailure(w, r, err, "Edit course", form, data)
		return
	}

	h.pages.Redirect(w, r, h.mount+"/courses", web.FlashSuccess, "Course saved.")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.pages.Redirect(w, r, h.mount+"/courses", web.FlashInfo, "Course was already deleted.")
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.mount+"/courses", web.FlashSuccess, "Course deleted.")
}

func (h *Handler) formFailure(w http.ResponseWriter, r *http.Request, err error, title string, form map[string]string, data formData) {
	errs := web.FormErrors{}
	switch {
	case errors.Is(err, ErrDuplicate):
		errs.Add("slug", "Another course already uses this slug.")
	case errors.Is(err, ErrInvalid):
		errs.Add("form", err.Error())
	default:
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Form(w, r, MapHTTPStatus(err), viewForm, title, form, errs, data)
}
