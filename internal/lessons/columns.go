package lessons

import (
	"strconv"

	"github.com/JaimeStill/lingua-web/pkg/datatable"
)

var Columns = []datatable.Column[Lesson]{
	{Key: "position", Header: "#", Value: func(l Lesson) string { return strconv.Itoa(l.Position) }, Sortable: true},
	{Key: "title", Header: "Title", Value: func(l Lesson) string { return l.Title }, Sortable: true, Searchable: true},
	{Key: "slug", Header: "Slug", Value: func(l Lesson) string { return l.Slug }, Searchable: true},
	{Key: "duration_minutes", Header: "Minutes", Value: func(l Lesson) string { return strconv.Itoa(l.DurationMinutes) }, Sortable: true},
	{Key: "published", Header: "Published", Value: func(l Lesson) string {
		if l.Published {
			return "yes"
		}
		return "no"
	}},
}
