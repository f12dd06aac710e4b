package users

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/web"
)

// RoleRef is the role summary embedded in a user record.
type RoleRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Active      bool       `json:"active"`
	Roles       []RoleRef  `json:"roles"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// RoleNames joins the user's role names for display.
func (u User) RoleNames() string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// HasRole reports whether the user holds the role with the given id.
func (u User) HasRole(id uuid.UUID) bool {
	for _, r := range u.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Command updates the editable profile fields.
type Command struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func CommandFromForm(form map[string]string) Command {
	return Command{
		Name:   form["name"],
		Active: form["active"] == "on" || form["active"] == "true",
	}
}

func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}
	c.Name = strings.TrimSpace(c.Name)
	switch {
	case c.Name == "":
		errs.Add("name", "Name is required.")
	case len([]rune(c.Name)) > 100:
		errs.Add("name", "Name must be 100 characters or fewer.")
	}
	return errs
}

// Filters narrow the user list.
type Filters struct {
	Role   string
	Active *bool
}

// FiltersFromQuery reads the role and active filters from list page params.
func FiltersFromQuery(get func(string) string) Filters {
	f := Filters{Role: strings.TrimSpace(get("role"))}
	switch get("active") {
	case "true":
		v := true
		f.Active = &v
	case "false":
		v := false
		f.Active = &v
	}
	return f
}

// ActiveParam is the active filter as a query value: "true", "false" or "".
func (f Filters) ActiveParam() string {
	if f.Active == nil {
		return ""
	}
	return strconv.FormatBool(*f.Active)
}

// Query encodes the filters as list page params.
func (f Filters) Query() string {
	return f.values().Encode()
}
