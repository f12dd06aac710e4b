package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/internal/sessions"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

type sessionKey struct{}

// SessionID returns the id of the session Authenticate found for the request.
func SessionID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionKey{}).(uuid.UUID)
	return id, ok
}

// Middleware resolves the session cookie and guards pages.
type Middleware struct {
	sessions sessions.System
	client   *apiclient.Client
	cookie   sessions.Cookie
	pages    *pages.Renderer
	logger   *slog.Logger
}

func NewMiddleware(sessions sessions.System, client *apiclient.Client, cookie sessions.Cookie, pages *pages.Renderer, logger *slog.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		client:   client,
		cookie:   cookie,
		pages:    pages,
		logger:   logger.With("system", "auth"),
	}
}

// Authenticate attaches the viewer and an API caller bound to the session's
// tokens. Requests without a live session pass through anonymously and a
// stale cookie is cleared.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.cookie.ID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		found, err := m.sessions.Find(r.Context(), id)
		if err != nil {
			m.pages.Fail(w, r, err, http.StatusServiceUnavailable)
			return
		}
		sess, ok := found.Get()
		if !ok {
			m.cookie.Clear(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess.ID)
		ctx = apiclient.NewContext(ctx, m.client.WithStore(m.sessions.Store(sess.ID)))
		ctx = web.WithViewer(ctx, sess.Viewer())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends anonymous requests to sign-in.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if web.ViewerFrom(r.Context()) == nil {
			web.Redirect(w, r, pages.LoginURL(m.pages.Path(""), r))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission admits viewers holding permission. It satisfies routes.Guard.
func (m *Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return m.require(func(v *web.Viewer) bool { return v.Can(permission) })
}

// RequireRole admits viewers holding role.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return m.require(func(v *web.Viewer) bool {
		for _, have := range v.Roles {
			if have == role {
				return true
			}
		}
		return false
	})
}

// RequireAnyPermission admits viewers holding at least one of permissions,
// as needed by the admin home page.
func (m *Middleware) RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return m.require(func(v *web.Viewer) bool {
		for _, p := range permissions {
			if v.Can(p) {
				return true
			}
		}
		return false
	})
}

func (m *Middleware) require(allowed func(*web.Viewer) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := web.ViewerFrom(r.Context())
			if v == nil {
				web.Redirect(w, r, pages.LoginURL(m.pages.Path(""), r))
				return
			}
			if !allowed(v) {
				m.logger.Info("access denied", "user_id", v.ID, "path", r.URL.Path)
				m.pages.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuestOnly sends signed-in viewers away from the sign-in pages.
func (m *Middleware) GuestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := web.ViewerFrom(r.Context()); v != nil {
			web.Redirect(w, r, m.pages.Path(Home(v)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Home is where a viewer lands after signing in.
func Home(v *web.Viewer) string {
	if v.IsAdmin() {
		return "/admin"
	}
	return "/dashboard"
}
