package lessons

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/slug"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"courseId"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Position        int       `json:"position"`
	DurationMinutes int       `json:"durationMinutes"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Command is the body of create and update requests. A zero Position on
// create places the lesson after the last one.
type Command struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	Position        int    `json:"position,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Published       bool   `json:"published"`
}

func CommandFromForm(form map[string]string) Command {
	position, _ := strconv.Atoi(form["position"])
	duration, _ := strconv.Atoi(form["duration_minutes"])
	return Command{
		Title:           form["title"],
		Slug:            form["slug"],
		Content:         form["content"],
		Position:        position,
		DurationMinutes: duration,
		Published:       form["published"] == "on" || form["published"] == "true",
	}
}

func (l *Lesson) FormValues() map[string]string {
	published := ""
	if l.Published {
		published = "on"
	}
	return map[string]string{
		"title":            l.Title,
		"slug":             l.Slug,
		"content":          l.Content,
		"position":         strconv.Itoa(l.Position),
		"duration_minutes": strconv.Itoa(l.DurationMinutes),
		"published":        published,
	}
}

// Validate trims the command and derives the slug from the title when empty.
func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}

	c.Title = strings.TrimSpace(c.Title)
	c.Slug = strings.TrimSpace(c.Slug)

	if c.Title == "" {
		errs.Add("title", "Title is required.")
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
		if c.Slug == "" && c.Title != "" {
			errs.Add("title", "Title must contain a letter or digit.")
		}
	} else if !slug.Valid(c.Slug) {
		errs.Add("slug", "Slug may contain only lowercase letters, digits and dashes.")
	}
	if c.Position < 0 {
		errs.Add("position", "Position cannot be negative.")
	}
	if c.DurationMinutes < 0 || c.DurationMinutes > 600 {
		errs.Add("duration_minutes", "Duration must be between 0 and 600 minutes.")
	}
	return errs
}
