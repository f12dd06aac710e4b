package progress

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/lingua-web/pkg/datatable"
)

var Columns = []datatable.Column[UserProgress]{
	{Key: "name", Header: "Learner", Value: func(p UserProgress) string { return p.Name }, Sortable: true, Searchable: true},
	{Key: "email", Header: "Email", Value: func(p UserProgress) string { return p.Email }, Sortable: true, Searchable: true},
	{Key: "lessons_completed", Header: "Lessons", Value: func(p UserProgress) string {
		return strconv.Itoa(p.LessonsCompleted) + "/" + strconv.Itoa(p.LessonsTotal)
	}, Sortable: true},
	{Key: "completion", Header: "Completion", Value: func(p UserProgress) string { return p.Completion().StringFixed(1) + "%" }},
	{Key: "average_score", Header: "Average score", Value: func(p UserProgress) string {
		return decimal.NewFromFloat(p.AverageScore).StringFixed(1)
	}, Sortable: true},
	{Key: "last_active_at", Header: "Last active", Value: func(p UserProgress) string {
		if p.LastActiveAt == nil {
			return ""
		}
		return p.LastActiveAt.Format("2006-01-02")
	}, Sortable: true},
}
