package scenarios

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
	viewList = "dashboard_conversation.html"
	viewChat = "dashboard_conversation_chat.html"
)

// Handler serves the learner's conversation practice pages.
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
		Prefix: "/conversation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Start},
			{Method: "POST", Pattern: "/{id}", Handler: h.Send},
		},
	}
}

type chatData struct {
	Scenario *Scenario
	Turns    []Turn
	History  string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sys.List(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Page(w, r, viewList, "Conversation practice", list)
}

// Start opens a fresh conversation seeded with the scenario's opening line.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.scenario(w, r)
	if !ok {
		return
	}

	var history []Message
	if sc.Opening != "" {
		history = append(history, Message{Role: RoleAssistant, Content: sc.Opening})
	}
	h.pages.Page(w, r, viewChat, sc.Title, chat(sc, history, nil))
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.scenario(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	history, err := DecodeHistory(r.PostForm.Get("history"))
	if err != nil {
		h.logger.Warn("conversation history rejected", "scenario_id", sc.ID, "error", err)
		h.pages.Redirect(w, r, "/dashboard/conversation/"+sc.ID.String(), web.FlashError,
			"The conversation could not be continued. A new one has been started.")
		return
	}

	message := r.PostForm.Get("message")
	reply, err := h.sys.Send(r.Context(), sc.ID, history, message)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrMessageTooBig) {
			h.pages.Form(w, r, http.StatusUnprocessableEntity, viewChat, sc.Title,
				map[string]string{"message": message},
				web.FormErrors{"message": sendError(err)},
				chat(sc, history, nil))
			return
		}
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	history = append(history,
		Message{Role: RoleUser, Content: message},
		Message{Role: RoleAssistant, Content: reply.Message},
	)
	h.pages.Page(w, r, viewChat, sc.Title, chat(sc, history, reply.Corrections))
}

func (h *Handler) scenario(w http.ResponseWriter, r *http.Request) (*Scenario, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.pages.NotFound(w, r)
		return nil, false
	}
	sc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return nil, false
	}
	return sc, true
}

// chat builds the page data. corrections belong to the last learner turn.
func chat(sc *Scenario, history []Message, corrections []Correction) chatData {
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	turns := make([]Turn, len(history))
	lastUser := -1
	for i, m := range history {
		turns[i] = Turn{Message: m}
		if m.Role == RoleUser {
			lastUser = i
		}
	}
	if lastUser >= 0 {
		turns[lastUser].Corrections = corrections
	}

	return chatData{Scenario: sc, Turns: turns, History: EncodeHistory(history)}
}

func sendError(err error) string {
	if errors.Is(err, ErrMessageTooBig) {
		return "Keep each message under 1000 characters."
	}
	return "Type a message to send."
}
