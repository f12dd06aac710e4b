package roles

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/permissions"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

// Protected names the role that cannot be renamed or deleted.
const Protected = "admin"

type Role struct {
	ID          uuid.UUID                `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Permissions []permissions.Permission `json:"permissions"`
	UserCount   int                      `json:"userCount"`
	CreatedAt   time.Time                `json:"createdAt"`
}

// Grants reports whether the role holds the permission.
func (r *Role) Grants(id uuid.UUID) bool {
	for _, p := range r.Permissions {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (r *Role) PermissionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Permissions))
	for i, p := range r.Permissions {
		ids[i] = p.ID
	}
	return ids
}

type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CommandFromForm(form map[string]string) Command {
	return Command{Name: form["name"], Description: form["description"]}
}

func (c *Command) Validate() web.FormErrors {
	errs := web.FormErrors{}
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	c.Description = strings.TrimSpace(c.Description)

	switch {
	case c.Name == "":
		errs.Add("name", "Name is required.")
	case len(c.Name) > 50:
		errs.Add("name", "Name must be 50 characters or fewer.")
	case strings.ContainsAny(c.Name, " \t"):
		errs.Add("name", "Name cannot contain spaces.")
	}
	return errs
}

// Change lists what SetPermissions granted and revoked.
type Change struct {
	Granted []uuid.UUID
	Revoked []uuid.UUID
}

// Diff computes the grants and revokes that turn current into want.
func Diff(current, want []uuid.UUID) Change {
	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	wanted := make(map[uuid.UUID]bool, len(want))

	var c Change
	for _, id := range want {
		if wanted[id] {
			continue
		}
		wanted[id] = true
		if !have[id] {
			c.Granted = append(c.Granted, id)
		}
	}
	for _, id := range current {
		if !wanted[id] {
			c.Revoked = append(c.Revoked, id)
		}
	}
	return c
}
