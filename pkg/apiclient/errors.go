package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSessionExpired means the refresh token was rejected or missing; the
	// caller must sign in again. Stored tokens have already been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoTokens is returned by token stores that hold nothing.
	ErrNoTokens = errors.New("no tokens")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns a message suitable for a toast.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please sign in again."
	}
	return "Something went wrong. Please try again."
}

func newError(status int, body []byte) *Error {
	return &Error{
		Status:  status,
		Message: extractMessage(status, body),
		Body:    body,
	}
}

// extractMessage looks for message, detail or error in a JSON error body.
// Validation details shaped as [{"msg": ...}] are joined.
func extractMessage(status int, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			switch v := payload[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case []any:
				var msgs []string
				for _, item := range v {
					if m, ok := item.(map[string]any); ok {
						if msg, ok := m["msg"].(string); ok {
							msgs = append(msgs, msg)
						}
					}
				}
				if len(msgs) > 0 {
					return strings.Join(msgs, "; ")
				}
			}
		}
	}
	return http.StatusText(status)
}

// MapStatus translates a backend error into a domain error chosen by status.
// The result matches both the domain error and the original *Error, so the
// backend message stays available to MessageOf. Errors without a mapped
// status pass through.
func MapStatus(err error, byStatus map[int]error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if domain, ok := byStatus[apiErr.Status]; ok {
		return &mappedError{domain: domain, api: apiErr}
	}
	return err
}

type mappedError struct {
	domain error
	api    *Error
}

func (e *mappedError) Error() string {
	return e.domain.Error() + ": " + e.api.Message
}

func (e *mappedError) Unwrap() []error {
	return []error{e.domain, e.api}
}
