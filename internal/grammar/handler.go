package grammar

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/handlers"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const viewCheck = "dashboard_grammar.html"

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
		Prefix: "/grammar",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Form},
			{Method: "POST", Pattern: "", Handler: h.Check},
			{Method: "POST", Pattern: "/check", Handler: h.CheckJSON},
		},
	}
}

type checkData struct {
	MaxLength int
	Result    *Response
	Segments  []Segment
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.pages.Page(w, r, viewCheck, "Grammar check", checkData{MaxLength: h.sys.MaxLength()})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	text := r.PostForm.Get("text")
	form := map[string]string{"text": text}
	data := checkData{MaxLength: h.sys.MaxLength()}

	res, err := h.sys.Check(r.Context(), text)
	if err != nil {
		if msg, ok := h.message(err); ok {
			h.pages.Form(w, r, MapHTTPStatus(err), viewCheck, "Grammar check", form, web.FormErrors{"text": msg}, data)
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	data.Result = res
	data.Segments = Highlight(res.Text, res.Errors)
	h.pages.Form(w, r, http.StatusOK, viewCheck, "Grammar check", form, nil, data)
}

type checkRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Text     string    `json:"text"`
	Errors   []Error   `json:"errors"`
	Segments []Segment `json:"segments"`
}

// CheckJSON serves the in-page checker.
func (h *Handler) CheckJSON(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	// Four bytes per code point plus room for the envelope.
	limit := int64(h.sys.MaxLength())*4 + 1024
	if err := handlers.DecodeJSON(w, r, limit, &req); err != nil {
		if errors.Is(err, handlers.ErrBodyTooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, h.tooLong(), err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, "Send the text as JSON.", err)
		return
	}

	res, err := h.sys.Check(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			handlers.RespondError(w, h.logger, http.StatusUnauthorized, apiclient.MessageOf(err), err)
			return
		}
		if msg, ok := h.message(err); ok {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), msg, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadGateway, apiclient.MessageOf(err), err)
		return
	}

	errs := res.Errors
	if errs == nil {
		errs = []Error{}
	}
	handlers.RespondJSON(w, http.StatusOK, checkResponse{
		Text:     res.Text,
		Errors:   errs,
		Segments: Highlight(res.Text, res.Errors),
	})
}

// message returns the user-facing text for validation failures.
func (h *Handler) message(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrEmptyText):
		return "Enter some text to check.", true
	case errors.Is(err, ErrTextTooLong):
		return h.tooLong(), true
	case errors.Is(err, ErrRejected):
		return apiclient.MessageOf(err), true
	}
	return "", false
}

func (h *Handler) tooLong() string {
	return fmt.Sprintf("Text must be %d characters or fewer.", h.sys.MaxLength())
}
