// Package query holds the sort expressions shared by list pages and backend requests.
package query

import "strings"

// SortField names a field and its direction.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// String renders the field in the "-field" form used on the wire.
func (s SortField) String() string {
	if s.Descending {
		return "-" + s.Field
	}
	return s.Field
}

// ParseSortFields parses a comma-separated list such as "-created_at,name".
// Blank entries are skipped.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			continue
		}
		if strings.HasPrefix(p, "-") {
			fields = append(fields, SortField{Field: p[1:], Descending: true})
			continue
		}
		fields = append(fields, SortField{Field: p})
	}
	return fields
}

// EncodeSortFields is the inverse of ParseSortFields.
func EncodeSortFields(fields []SortField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Toggle returns the sort list a column header link should produce:
// clicking the current primary field flips its direction, any other field becomes ascending.
func Toggle(current []SortField, field string) []SortField {
	if len(current) > 0 && current[0].Field == field {
		return []SortField{{Field: field, Descending: !current[0].Descending}}
	}
	return []SortField{{Field: field}}
}
