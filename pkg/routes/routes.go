// Package routes describes page routes as nested groups so each domain can
// declare its URLs, and the guards protecting them, next to its handlers.
package routes

import "net/http"

// Route is a single method and pattern.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group shares a prefix and middleware across routes and child groups.
// Middleware of a parent wraps middleware of its children.
type Group struct {
	Prefix     string
	Middleware []func(http.Handler) http.Handler
	Routes     []Route
	Children   []Group
}

// Registrar is satisfied by *http.ServeMux and *web.Router.
type Registrar interface {
	Handle(pattern string, handler http.Handler)
}

// Register adds every route of g to r.
func Register(r Registrar, g Group) {
	register(r, "", nil, g)
}

func register(r Registrar, prefix string, parent []func(http.Handler) http.Handler, g Group) {
	prefix += g.Prefix
	chain := append(append([]func(http.Handler) http.Handler{}, parent...), g.Middleware...)

	for _, route := range g.Routes {
		pattern := prefix + route.Pattern
		if pattern == "" {
			pattern = "/"
		}

		var h http.Handler = route.Handler
		for i := len(chain) - 1; i >= 0; i-- {
			h = chain[i](h)
		}
		r.Handle(route.Method+" "+pattern, h)
	}

	for _, child := range g.Children {
		register(r, prefix, chain, child)
	}
}

// Guard builds middleware that admits only viewers holding permission.
type Guard func(permission string) func(http.Handler) http.Handler
