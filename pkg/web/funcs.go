package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Funcs returns the helper functions available to every template.
func Funcs(basePath string) template.FuncMap {
	return template.FuncMap{
		"path": func(parts ...string) string {
			return basePath + strings.Join(parts, "")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"join": strings.Join,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("2 Jan 2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("2 Jan 2006 15:04")
		},
		"query": func(values url.Values) string {
			if len(values) == 0 {
				return ""
			}
			return "?" + values.Encode()
		},
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"fixed": fixed,
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}

// fixed formats a number with places decimals. A nil pointer renders as "—".
func fixed(places int, v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', places, 64)
	case *float64:
		if n == nil {
			return "—"
		}
		return strconv.FormatFloat(*n, 'f', places, 64)
	case int:
		return strconv.FormatFloat(float64(n), 'f', places, 64)
	case fmt.Stringer:
		return n.String()
	}
	return fmt.Sprint(v)
}
