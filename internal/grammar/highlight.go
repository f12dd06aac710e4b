package grammar

import (
	"cmp"
	"slices"
)

// Highlight splits text into alternating plain and error segments.
//
// Errors are taken in offset order (stable for equal offsets). A span that
// starts inside an earlier span is skipped, a span running past the end is
// clamped, and empty or out-of-range spans are ignored. Joining the segment
// texts always reproduces text.
func Highlight(text string, errs []Error) []Segment {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	sorted := slices.Clone(errs)
	slices.SortStableFunc(sorted, func(a, b Error) int { return cmp.Compare(a.Offset, b.Offset) })

	segments := make([]Segment, 0, 2*len(sorted)+1)
	pos := 0
	for i := range sorted {
		e := &sorted[i]
		start := e.Offset
		if e.Length <= 0 || start < pos || start >= len(runes) {
			continue
		}
		end := len(runes)
		if e.Length < end-start {
			end = start + e.Length
		}

		if start > pos {
			segments = append(segments, Segment{Text: string(runes[pos:start])})
		}
		segments = append(segments, Segment{Text: string(runes[start:end]), Error: e})
		pos = end
	}
	if pos < len(runes) {
		segments = append(segments, Segment{Text: string(runes[pos:])})
	}
	return segments
}
