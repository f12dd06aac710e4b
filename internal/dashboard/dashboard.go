package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/scenarios"
)

// Activity kinds reported in RecentActivity.
const (
	ActivityLesson        = "lesson"
	ActivityQuiz          = "quiz"
	ActivityPronunciation = "pronunciation"
	ActivityConversation  = "conversation"
)

type Activity struct {
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Score      *float64  `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Stats is the learner's dashboard summary.
type Stats struct {
	LessonsCompleted int        `json:"lessonsCompleted"`
	QuizzesTaken     int        `json:"quizzesTaken"`
	AverageScore     float64    `json:"averageScore"`
	StreakDays       int        `json:"streakDays"`
	MinutesPracticed int        `json:"minutesPracticed"`
	RecentActivity   []Activity `json:"recentActivity"`
}

// Course is a course the learner is enrolled in.
type Course struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Language         string    `json:"language"`
	Level            string    `json:"level"`
	LessonsCompleted int       `json:"lessonsCompleted"`
	LessonsTotal     int       `json:"lessonsTotal"`
}

// Percent is completion rounded down to a whole percent.
func (c Course) Percent() int {
	if c.LessonsTotal <= 0 {
		return 0
	}
	p := c.LessonsCompleted * 100 / c.LessonsTotal
	return min(max(p, 0), 100)
}

// Overview is everything the dashboard home page shows.
type Overview struct {
	Stats     *Stats
	Courses   []Course
	Scenarios []scenarios.Scenario
}
