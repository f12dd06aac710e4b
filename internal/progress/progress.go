package progress

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UserProgress is one learner's row in the analytics table.
type UserProgress struct {
	UserID           uuid.UUID  `json:"userId"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	LessonsTotal     int        `json:"lessonsTotal"`
	AverageScore     float64    `json:"averageScore"`
	LastActiveAt     *time.Time `json:"lastActiveAt"`
}

// Completion is the share of lessons completed as a percentage with one decimal.
func (p UserProgress) Completion() decimal.Decimal {
	return percent(p.LessonsCompleted, p.LessonsTotal)
}

// Summary aggregates a set of learners.
type Summary struct {
	Learners         int
	Started          int
	LessonsCompleted int
	LessonsTotal     int
	CompletionRate   decimal.Decimal
	AverageScore     decimal.Decimal
}

// Summarize totals rows. CompletionRate is completed over assigned lessons
// across all learners; AverageScore is the mean over learners who have
// completed at least one lesson. Both are rounded to one decimal place.
func Summarize(rows []UserProgress) Summary {
	s := Summary{Learners: len(rows)}
	scores := decimal.Zero

	for _, r := range rows {
		s.LessonsCompleted += r.LessonsCompleted
		s.LessonsTotal += r.LessonsTotal
		if r.LessonsCompleted > 0 {
			s.Started++
			scores = scores.Add(decimal.NewFromFloat(r.AverageScore))
		}
	}

	s.CompletionRate = percent(s.LessonsCompleted, s.LessonsTotal)
	s.AverageScore = decimal.Zero
	if s.Started > 0 {
		s.AverageScore = scores.Div(decimal.NewFromInt(int64(s.Started))).Round(1)
	}
	return s
}

func percent(part, whole int) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(1)
}
