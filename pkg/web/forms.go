package web

import (
	"maps"
	"net/http"
	"slices"
	"strings"
)

// FormErrors maps field names to validation messages.
type FormErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FormErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Get returns the message for field.
func (e FormErrors) Get(field string) string {
	return e[field]
}

// Any reports whether any error was recorded.
func (e FormErrors) Any() bool {
	return len(e) > 0
}

// FormValues flattens the posted form into trimmed single values for re-rendering.
// Password fields are never echoed back.
func FormValues(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) == 0 || strings.Contains(k, "password") {
			continue
		}
		out[k] = strings.TrimSpace(v[0])
	}
	return out
}

// First returns one message, from the alphabetically first field, for use in
// error values.
func (e FormErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(e))
	return e[keys[0]]
}
