package courses

import (
	"strconv"

	"github.com/JaimeStill/lingua-web/pkg/datatable"
)

// Columns drive both the admin table and the CSV export.
var Columns = []datatable.Column[Course]{
	{Key: "title", Header: "Title", Value: func(c Course) string { return c.Title }, Sortable: true, Searchable: true},
	{Key: "slug", Header: "Slug", Value: func(c Course) string { return c.Slug }, Searchable: true},
	{Key: "language", Header: "Language", Value: func(c Course) string { return c.Language }, Sortable: true, Searchable: true},
	{Key: "level", Header: "Level", Value: func(c Course) string { return c.Level }, Sortable: true},
	{Key: "lesson_count", Header: "Lessons", Value: func(c Course) string { return strconv.Itoa(c.LessonCount) }, Sortable: true},
	{Key: "published", Header: "Published", Value: func(c Course) string { return yesNo(c.Published) }},
	{Key: "updated_at", Header: "Updated", Value: func(c Course) string { return c.UpdatedAt.Format("2006-01-02") }, Sortable: true},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
