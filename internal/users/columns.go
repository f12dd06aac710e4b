package users

import (
	"github.com/JaimeStill/lingua-web/pkg/datatable"
)

var Columns = []datatable.Column[User]{
	{Key: "name", Header: "Name", Value: func(u User) string { return u.Name }, Sortable: true, Searchable: true},
	{Key: "email", Header: "Email", Value: func(u User) string { return u.Email }, Sortable: true, Searchable: true},
	{Key: "roles", Header: "Roles", Value: User.RoleNames},
	{Key: "active", Header: "Active", Value: func(u User) string {
		if u.Active {
			return "yes"
		}
		return "no"
	}, Sortable: true},
	{Key: "created_at", Header: "Joined", Value: func(u User) string { return u.CreatedAt.Format("2006-01-02") }, Sortable: true},
	{Key: "last_login_at", Header: "Last sign-in", Value: func(u User) string {
		if u.LastLoginAt == nil {
			return ""
		}
		return u.LastLoginAt.Format("2006-01-02 15:04")
	}, Sortable: true},
}
