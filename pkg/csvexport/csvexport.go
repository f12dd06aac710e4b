// Package csvexport writes list data as CSV downloads.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JaimeStill/lingua-web/pkg/datatable"
)

// Write emits headers followed by rows. Cells that a spreadsheet would treat
// as a formula are prefixed with a single quote.
func Write(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		safe := make([]string, len(row))
		for i, cell := range row {
			safe[i] = Sanitize(cell)
		}
		if err := cw.Write(safe); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable emits one row per item using the table columns.
func WriteTable[T any](w io.Writer, cols []datatable.Column[T], items []T) error {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}

	rows := make([][]string, len(items))
	for r, item := range items {
		row := make([]string, len(cols))
		for i, c := range cols {
			if c.Value != nil {
				row[i] = c.Value(item)
			}
		}
		rows[r] = row
	}
	return Write(w, headers, rows)
}

// Respond sends items as an attachment named filename.
func Respond[T any](w http.ResponseWriter, filename string, cols []datatable.Column[T], items []T) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Cache-Control", "no-store")
	return WriteTable(w, cols, items)
}

// Sanitize neutralizes leading formula characters.
func Sanitize(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}

// Filename builds "<prefix>-<date>.csv" with unsafe characters removed.
func Filename(prefix, date string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, prefix)
	if clean == "" {
		clean = "export"
	}
	return clean + "-" + date + ".csv"
}
