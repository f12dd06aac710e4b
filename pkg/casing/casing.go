// Package casing converts JSON object keys between the camelCase used by the
// web layer and the snake_case spoken by the REST backend.
package casing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToSnake converts camelCase or PascalCase to snake_case. Acronym runs stay
// together: "HTTPStatus" becomes "http_status".
func ToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts snake_case to camelCase. Empty segments from leading,
// trailing or repeated underscores are dropped.
func ToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	first := true
	for part := range strings.SplitSeq(s, "_") {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// ConvertKeys rewrites every object key in a decoded JSON value using fn.
// Slices and nested objects are walked; scalar values are returned untouched.
func ConvertKeys(v any, fn func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fn(k)] = ConvertKeys(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ConvertKeys(val, fn)
		}
		return out
	default:
		return v
	}
}
