package feedback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
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
	viewAdmin   = "admin_feedback.html"
	viewLearner = "dashboard_feedback.html"
)

var Columns = []datatable.Column[Feedback]{
	{Key: "created_at", Header: "Received", Value: func(f Feedback) string { return f.CreatedAt.Format("2006-01-02 15:04") }, Sortable: true},
	{Key: "user_name", Header: "From", Value: func(f Feedback) string { return f.UserName }, Sortable: true, Searchable: true},
	{Key: "category", Header: "Category", Value: func(f Feedback) string { return f.Category }, Sortable: true},
	{Key: "rating", Header: "Rating", Value: func(f Feedback) string { return strconv.Itoa(f.Rating) }, Sortable: true},
	{Key: "message", Header: "Message", Value: func(f Feedback) string { return f.Message }, Searchable: true},
	{Key: "status", Header: "Status", Value: func(f Feedback) string { return f.Status }, Sortable: true},
}

// Handler serves the learner feedback form and the admin triage list.
type Handler struct {
	sys        System
	admin      *pages.Renderer
	learner    *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

// NewHandler takes one renderer per layout; mount is the admin mount point.
func NewHandler(sys System, admin, learner *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		admin:      admin,
		learner:    learner,
		pagination: pagination,
		mount:      mount,
		logger:     logger,
	}
}

func (h *Handler) AdminRoutes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/feedback",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("feedback:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/export.csv", Handler: h.Export},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("feedback:write")},
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{id}/resolve", Handler: h.Resolve},
					{Method: "POST", Pattern: "/{id}/delete", Handler: h.Delete},
				},
			},
		},
	}
}

func (h *Handler) LearnerRoutes() routes.Group {
	return routes.Group{
		Prefix: "/feedback",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Form},
			{Method: "POST", Pattern: "", Handler: h.Submit},
		},
	}
}

type listData struct {
	Table   datatable.View
	Filters Filters
}

func (h *Handler) table(filters Filters) *datatable.Table[Feedback] {
	return &datatable.Table[Feedback]{
		Columns: Columns,
		RowKey:  func(f Feedback) string { return f.ID.String() },
		Config:  h.pagination,
		PageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Feedback], error) {
			res, err := h.sys.List(ctx, req, filters)
			if err != nil {
				return pagination.PageResult[Feedback]{}, err
			}
			return *res, nil
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := pagination.PageRequestFromQuery(q, h.pagination)
	filters := FiltersFromQuery(q.Get)
	table := h.table(filters)

	res, err := table.Load(r.Context(), req)
	if err != nil {
		h.admin.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	path := h.mount + "/feedback"
	if filters.Status != "" {
		path += "?status=" + filters.Status
	}
	h.admin.Page(w, r, viewAdmin, "Feedback", listData{
		Table:   table.View(res, req, h.admin.Path(path)),
		Filters: filters,
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query().Get)
	all, err := pagination.Collect(r.Context(), h.pagination.MaxPageSize, func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Feedback], error) {
		return h.sys.List(ctx, page, filters)
	})
	if err != nil {
		h.admin.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	name := csvexport.Filename("feedback", time.Now().Format("2006-01-02"))
	if err := csvexport.Respond(w, name, Columns, all); err != nil {
		h.logger.Error("feedback export failed", "error", err)
	}
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.admin.NotFound(w, r)
		return
	}

	back := h.back(r)
	if _, err := h.sys.Resolve(r.Context(), id); err != nil {
		if errors.Is(err, ErrAlreadyResolved) {
			h.admin.Redirect(w, r, back, web.FlashInfo, "Feedback was already resolved.")
			return
		}
		h.admin.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.admin.Redirect(w, r, back, web.FlashSuccess, "Feedback resolved.")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.admin.NotFound(w, r)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		h.admin.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.admin.Redirect(w, r, h.back(r), web.FlashSuccess, "Feedback deleted.")
}

// back returns to the list with the status filter the action was taken from.
func (h *Handler) back(r *http.Request) string {
	path := h.mount + "/feedback"
	if f := FiltersFromQuery(r.FormValue); f.Status != "" {
		path += "?status=" + f.Status
	}
	return path
}

type learnerData struct {
	Categories []string
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.learner.Form(w, r, http.StatusOK, viewLearner, "Send feedback",
		map[string]string{"category": "general", "rating": "5"}, nil,
		learnerData{Categories: Categories})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	data := learnerData{Categories: Categories}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.learner.Form(w, r, http.StatusUnprocessableEntity, viewLearner, "Send feedback", form, errs, data)
		return
	}

	if _, err := h.sys.Submit(r.Context(), cmd); err != nil {
		if errors.Is(err, ErrInvalid) {
			h.learner.Form(w, r, http.StatusUnprocessableEntity, viewLearner, "Send feedback", form,
				web.FormErrors{"message": err.Error()}, data)
			return
		}
		h.learner.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.learner.Redirect(w, r, "/dashboard", web.FlashSuccess, "Thanks for your feedback!")
}
