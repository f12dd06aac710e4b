package scenarios

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// MaxHistory caps the turns carried between requests.
	MaxHistory = 40
	MaxMessage = 1000
)

type Scenario struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Level       string    `json:"level"`
	Persona     string    `json:"persona"`
	Opening     string    `json:"opening"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Correction struct {
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
}

// Reply is the assistant's answer to one learner turn.
type Reply struct {
	Message     string       `json:"message"`
	Corrections []Correction `json:"corrections"`
}

// Turn is a rendered exchange: the learner's message with any corrections,
// or an assistant message.
type Turn struct {
	Message
	Corrections []Correction
}

// EncodeHistory serialises history for the conversation form's hidden field.
func EncodeHistory(history []Message) string {
	if len(history) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(history)
	return string(b)
}

// DecodeHistory parses the hidden field. It rejects unknown roles and keeps
// only the last MaxHistory messages.
func DecodeHistory(raw string) ([]Message, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var history []Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHistory, err)
	}
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return nil, fmt.Errorf("%w: message %d has role %q", ErrBadHistory, i, m.Role)
		}
	}
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	return history, nil
}
