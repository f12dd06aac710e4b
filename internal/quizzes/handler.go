package quizzes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewList = "dashboard_quizzes.html"
	viewQuiz = "dashboard_quiz.html"
)

type Handler struct {
	sys    System
	pages  *pages.Renderer
	logger *slog.Logger
}

func NewHandler(sys System, pages *pages.Renderer, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, pages: pages, logger: logger}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/quizzes",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Take},
			{Method: "POST", Pattern: "/{id}", Handler: h.Submit},
		},
	}
}

type quizData struct {
	Quiz   *Quiz
	Result *Result
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Page(w, r, viewList, "Quizzes", list)
}

func (h *Handler) Take(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.quiz(w, r)
	if !ok {
		return
	}
	h.pages.Page(w, r, viewQuiz, quiz.Title, quizData{Quiz: quiz})
}

// Submit grades the answers and re-renders the quiz with the result, keeping
// the learner's choices selected.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.quiz(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := web.FormValues(r)
	answers := AnswersFromForm(quiz, r.PostForm)

	result, err := h.sys.Submit(r.Context(), quiz.ID, answers)
	if err != nil {
		if errors.Is(err, ErrNoAnswers) || errors.Is(err, ErrInvalid) {
			msg := "Answer at least one question before submitting."
			if errors.Is(err, ErrInvalid) {
				msg = "These answers could not be graded. Please try again."
			}
			h.pages.Form(w, r, http.StatusUnprocessableEntity, viewQuiz, quiz.Title, form,
				web.FormErrors{"form": msg}, quizData{Quiz: quiz})
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Form(w, r, http.StatusOK, viewQuiz, quiz.Title, form, nil, quizData{Quiz: quiz, Result: result})
}

func (h *Handler) quiz(w http.ResponseWriter, r *http.Request) (*Quiz, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return nil, false
	}
	q, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return nil, false
	}
	return q, true
}
