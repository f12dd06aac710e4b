package courses

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/slug"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

// Levels are the CEFR levels a course may target.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Level       string    `json:"level"`
	Published   bool      `json:"published"`
	LessonCount int       `json:"lessonCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Command is the body of create and update requests.
type Command struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Published   bool   `json:"published"`
}

// CommandFromForm reads a submitted course form.
func CommandFromForm(form map[string]string) Command {
	return Command{
		Title:       form["title"],
		Slug:        form["slug"],
		Description: form["description"],
		Language:    form["language"],
		Level:       strings.ToUpper(form["level"]),
		Published:   form["published"] == "on" || form["published"] == "true",
	}
}

// FormValues is the inverse of CommandFromForm, used to pre-fill the edit form.
func (c *Course) FormValues() map[string]string {
	published := ""
	if c.Published {
		published = "on"
	}
	return map[string]string{
		"title":       c.Title,
		"slug":        c.Slug,
		"description": c.Description,
		"language":    c.Language,
		"level":       c.Level,
		"published":   published,
	}
}

// Validate checks the command and fills in a slug derived from the title
// when none was given.
func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}

	c.Title = strings.TrimSpace(c.Title)
	c.Slug = strings.TrimSpace(c.Slug)

	switch {
	case c.Title == "":
		errs.Add("title", "Title is required.")
	case len([]rune(c.Title)) > 120:
		errs.Add("title", "Title must be 120 characters or fewer.")
	}

	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
		if c.Slug == "" && c.Title != "" {
			errs.Add("title", "Title must contain a letter or digit.")
		}
	} else if !slug.Valid(c.Slug) {
		errs.Add("slug", "Slug may contain only lowercase letters, digits and dashes.")
	}

	if c.Language == "" {
		errs.Add("language", "Language is required.")
	}
	if !slices.Contains(Levels, c.Level) {
		errs.Add("level", "Choose a level from A1 to C2.")
	}
	return errs
}
