package pronunciation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewAssess = "dashboard_pronunciation.html"
	title      = "Pronunciation"

	// multipart framing and the reference field on top of the recording.
	formOverhead = 64 << 10
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
		Prefix: "/pronunciation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Form},
			{Method: "POST", Pattern: "", Handler: h.Assess},
			{Method: "GET", Pattern: "/recordings/{id}", Handler: h.Recording},
		},
	}
}

type assessData struct {
	MaxSize    string
	Assessment *Assessment
	Flagged    []Word
}

func (h *Handler) data() assessData {
	return assessData{MaxSize: units.HumanSize(float64(h.sys.MaxUploadSize()))}
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.pages.Page(w, r, viewAssess, title, h.data())
}

func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	limit := h.sys.MaxUploadSize() + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(h.sys.MaxUploadSize()); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || r.ContentLength > limit {
			h.invalid(w, r, "", ErrTooLarge)
			return
		}
		h.invalid(w, r, "", ErrNoAudio)
		return
	}
	defer r.MultipartForm.RemoveAll()

	reference := r.PostFormValue("reference")

	file, header, err := r.FormFile("audio")
	if err != nil {
		h.invalid(w, r, reference, ErrNoAudio)
		return
	}
	defer file.Close()

	audio := Audio{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}

	a, err := h.sys.Assess(r.Context(), reference, audio)
	if err != nil {
		if _, ok := h.message(err); ok {
			h.invalid(w, r, reference, err)
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	data := h.data()
	data.Assessment = a
	data.Flagged = a.Result.Mispronounced()
	h.pages.Form(w, r, http.StatusOK, viewAssess, title, map[string]string{"reference": reference}, nil, data)
}

// Recording streams a stored recording back to its owner.
func (h *Handler) Recording(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}

	rc, err := h.sys.Recording(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 512)
	head, _ := br.Peek(512)
	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		h.logger.Warn("recording stream interrupted", "recording", id, "error", err)
	}
}

func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, reference string, err error) {
	msg, _ := h.message(err)
	field := "audio"
	if errors.Is(err, ErrNoReference) || errors.Is(err, ErrReferenceTooLong) {
		field = "reference"
	}
	h.pages.Form(w, r, MapHTTPStatus(err), viewAssess, title,
		map[string]string{"reference": reference},
		web.FormErrors{field: msg},
		h.data())
}

func (h *Handler) message(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNoReference):
		return "Enter the sentence you are reading.", true
	case errors.Is(err, ErrReferenceTooLong):
		return fmt.Sprintf("Keep the sentence under %d characters.", MaxReference), true
	case errors.Is(err, ErrNoAudio):
		return "Choose or record an audio file.", true
	case errors.Is(err, ErrNotAudio):
		return "The recording must be an audio file.", true
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("The recording must be %s or smaller.", units.HumanSize(float64(h.sys.MaxUploadSize()))), true
	case errors.Is(err, ErrRejected):
		return apiclient.MessageOf(err), true
	}
	return "", false
}
