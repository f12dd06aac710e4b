package permissions

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/web"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*:[a-z*][a-z0-9_*-]*$`)

type Permission struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Resource is the part of the key before the colon.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(p.Key, ":")
	return resource
}

type Command struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

func CommandFromForm(form map[string]string) Command {
	return Command{Key: form["key"], Description: form["description"]}
}

// ValidKey reports whether key has the form resource:action.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}
	c.Key = strings.ToLower(strings.TrimSpace(c.Key))
	c.Description = strings.TrimSpace(c.Description)

	switch {
	case c.Key == "":
		errs.Add("key", "Key is required.")
	case !ValidKey(c.Key):
		errs.Add("key", `Key must look like "resource:action", e.g. "courses:write".`)
	}
	if len(c.Description) > 255 {
		errs.Add("description", "Description must be 255 characters or fewer.")
	}
	return errs
}
