package feedback

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Categories a learner can file feedback under.
var Categories = []string{"general", "content", "bug", "feature"}

const maxMessage = 2000

type Feedback struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	UserName   string     `json:"userName"`
	Category   string     `json:"category"`
	Rating     int        `json:"rating"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt"`
}

func (f Feedback) Open() bool {
	return f.Status != StatusResolved
}

// Command is a learner's submission.
type Command struct {
	Category string `json:"category"`
	Rating   int    `json:"rating"`
	Message  string `json:"message"`
}

func CommandFromForm(form map[string]string) Command {
	rating, _ := strconv.Atoi(form["rating"])
	return Command{
		Category: form["category"],
		Rating:   rating,
		Message:  form["message"],
	}
}

func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}
	c.Message = strings.TrimSpace(c.Message)
	if c.Category == "" {
		c.Category = "general"
	}

	if !slices.Contains(Categories, c.Category) {
		errs.Add("category", "Choose a category.")
	}
	if c.Rating < 1 || c.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5.")
	}
	switch n := len([]rune(c.Message)); {
	case n == 0:
		errs.Add("message", "Tell us what you think.")
	case n > maxMessage:
		errs.Add("message", "Feedback must be 2000 characters or fewer.")
	}
	return errs
}

// Filters narrow the admin feedback list.
type Filters struct {
	Status string
}

// FiltersFromQuery accepts only known statuses.
func FiltersFromQuery(get func(string) string) Filters {
	switch s := get("status"); s {
	case StatusOpen, StatusResolved:
		return Filters{Status: s}
	}
	return Filters{}
}
