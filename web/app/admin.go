package app

import (
	"net/http"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

// Section is a card on the admin home page.
type Section struct {
	Title       string
	Description string
	Path        string
	Permission  string
}

var adminSections = []Section{
	{Title: "Courses", Description: "Create courses and arrange their lessons.", Path: "/admin/courses", Permission: "courses:read"},
	{Title: "Users", Description: "Activate accounts and assign roles.", Path: "/admin/users", Permission: "users:read"},
	{Title: "Roles", Description: "Group permissions into roles.", Path: "/admin/roles", Permission: "roles:read"},
	{Title: "Permissions", Description: "Define what each role may do.", Path: "/admin/permissions", Permission: "permissions:read"},
	{Title: "Feedback", Description: "Read and resolve learner feedback.", Path: "/admin/feedback", Permission: "feedback:read"},
	{Title: "Progress", Description: "Completion and scores across learners.", Path: "/admin/progress", Permission: "progress:read"},
}

// adminPermissions are the permissions that open the admin console.
func adminPermissions() []string {
	perms := make([]string, len(adminSections))
	for i, s := range adminSections {
		perms[i] = s.Permission
	}
	return perms
}

// VisibleSections filters sections to those v may open.
func VisibleSections(v *web.Viewer) []Section {
	var visible []Section
	for _, s := range adminSections {
		if v.Can(s.Permission) {
			visible = append(visible, s)
		}
	}
	return visible
}

func adminHome(p *pages.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Page(w, r, "admin_home.html", "Admin", struct{ Sections []Section }{
			Sections: VisibleSections(web.ViewerFrom(r.Context())),
		})
	}
}
