package lessons

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/courses"
	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "admin_lessons.html"
	viewForm = "admin_lesson_form.html"
)

// Handler serves the lesson pages nested under a course.
type Handler struct {
	sys        System
	courses    courses.System
	pages      *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

func NewHandler(sys System, courses courses.System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		courses:    courses,
		pages:      pages,
		pagination: pagination,
		mount:      mount,
		logger:     logger,
	}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix: "/courses/{course}/lessons",
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guard("lessons:read")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
				},
			},
			{
				Middleware: []func(http.Handler) http.Handler{guard("lessons:write")},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/new", Handler: h.New},
					{Method: "POST", Pattern: "", Handler: h.Create},
					{Method: "GET", Pattern: "/{id}/edit", Handler: h.Edit},
					{Method: "POST", Pattern: "/{id}", Handler: h.Update},
					{Method: "POST", Pattern: "/{id}/move", Handler: h.Move},
					{Method: "POST", Pattern: "/{id}/delete", Handler: h.Delete},
				},
			},
		},
	}
}

type listData struct {
	Course *courses.Course
	Table  datatable.View
}

type formData struct {
	Course *courses.Course
	Lesson *Lesson
	Action string
}

func (h *Handler) base(courseID uuid.UUID) string {
	return h.mount + "/courses/" + courseID.String() + "/lessons"
}

// course loads the parent course from the path, rendering the failure page
// when it cannot.
func (h *Handler) course(w http.ResponseWriter, r *http.Request) (*courses.Course, bool) {
	id, err := uuid.Parse(r.PathValue("course"))
	if err != nil {
		h.pages.NotFound(w, r)
		return nil, false
	}
	c, err := h.courses.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, courses.MapHTTPStatus(err))
		return nil, false
	}
	return c, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}

	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	table := &datatable.Table[Lesson]{
		Columns: Columns,
		RowKey:  func(l Lesson) string { return l.ID.String() },
		Config:  h.pagination,
		PageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[Lesson], error) {
			res, err := h.sys.ListByCourse(ctx, course.ID, req)
			if err != nil {
				return pagination.PageResult[Lesson]{}, err
			}
			return *res, nil
		},
	}

	res, err := table.Load(r.Context(), req)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Page(w, r, viewList, course.Title+" lessons", listData{
		Course: course,
		Table:  table.View(res, req, h.pages.Path(h.base(course.ID))),
	})
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	h.pages.Form(w, r, http.StatusOK, viewForm, "New lesson", nil, nil, formData{
		Course: course,
		Action: h.base(course.ID),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := web.FormValues(r)
	data := formData{Course: course, Action: h.base(course.ID)}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "New lesson", form, errs, data)
		return
	}

	if _, err := h.sys.Create(r.Context(), course.ID, cmd); err != nil {
		h.formFailure(w, r, err, "New lesson", form, data)
		return
	}

	h.pages.Redirect(w, r, h.base(course.ID), web.FlashSuccess, "Lesson created.")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
	lesson, ok := h.lesson(w, r, course)
	if !ok {
		return
	}

	h.pages.Form(w, r, http.StatusOK, viewForm, "Edit lesson", lesson.FormValues(), nil, formData{
		Course: course,
		Lesson: lesson,
		Action: h.base(course.ID) + "/" + lesson.ID.String(),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	course, ok := h.course(w, r)
	if !ok {
		return
	}
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
	data := formData{Course: course, Lesson: &Lesson{ID: id}, Action: h.base(course.ID) + "/" + id.String()}

	cmd := CommandFromForm(form)
	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForm, "Edit lesson", form, errs, data)
		return
	}

	if _, err := h.sys.Update(r.Context(), id, cmd); err != nil {
		h.formFailure(w, r, err, "Edit lesson", form, data)
		return
	}

	h.pages.Redirect(w, r, h.base(course.ID), web.FlashSuccess, "Lesson saved.")
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("course"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	delta := 1
	if r.FormValue("direction") == "up" {
		delta = -1
	}

	if err := h.sys.Move(r.Context(), id, delta); err != nil {
		if errors.Is(err, ErrNoMove) {
			h.pages.Redirect(w, r, h.base(courseID), web.FlashInfo, "Lesson is already in place.")
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.base(courseID), "", "")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("course"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Redirect(w, r, h.base(courseID), web.FlashSuccess, "Lesson deleted.")
}

// lesson loads the lesson named in the path and checks it belongs to course.
func (h *Handler) lesson(w http.ResponseWriter, r *http.Request, course *courses.Course) (*Lesson, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return nil, false
	}
	l, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return nil, false
	}
	if l.CourseID != course.ID {
		h.pages.NotFound(w, r)
		return nil, false
	}
	return l, true
}

func (h *Handler) formFailure(w http.ResponseWriter, r *http.Request, err error, title string, form map[string]string, data formData) {
	errs := web.FormErrors{}
	switch {
	case errors.Is(err, ErrDuplicate):
		errs.Add("slug", "Another lesson in this course already uses this slug.")
	case errors.Is(err, ErrInvalid):
		errs.Add("form", err.Error())
	default:
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Form(w, r, MapHTTPStatus(err), viewForm, title, form, errs, data)
}
