package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/auth"
	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/internal/sessions"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const password = "correct-horse"

var cookie = sessions.Cookie{Name: "sid", SameSite: http.SameSiteLaxMode, TTL: time.Hour}

// fakeBackend records what the auth endpoints received.
type fakeBackend struct {
	mu        sync.Mutex
	loggedOut []string
	forgot    []string
	jwt       string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		email := body["email"]

		switch {
		case body["password"] != password:
			pagestest.JSON(w, 401, `{"detail":"Invalid credentials"}`)
		case email == "disabled@example.com":
			pagestest.JSON(w, 403, `{"detail":"Account disabled"}`)
		case email == "jwt@example.com":
			pagestest.JSON(w, 200, `{"access_token":"`+f.jwt+`","refresh_token":"ref"}`)
		case email == "me@example.com":
			pagestest.JSON(w, 200, `{"access_token":"opaque","refresh_token":"ref"}`)
		default:
			roles := `["learner"]`
			if strings.HasPrefix(email, "admin@") {
				roles = `["admin"]`
			}
			local, _, _ := strings.Cut(email, "@")
			pagestest.JSON(w, 200, `{"access_token":"acc-`+local+`","refresh_token":"ref-`+local+`",
				"user":{"id":"u-`+local+`","email":"`+email+`","name":"","roles":`+roles+`,"permissions":["courses:read"]}}`)
		}
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer opaque" && r.Header.Get("Authorization") != "Bearer acc-ana" {
			pagestest.JSON(w, 401, `{"detail":"bad token"}`)
			return
		}
		pagestest.JSON(w, 200, `{"id":"u-me","email":"me@example.com","name":"Mei","roles":["learner"]}`)
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.com" {
			pagestest.JSON(w, 409, `{"detail":"Email already registered"}`)
			return
		}
		pagestest.JSON(w, 201, `{"id":"new"}`)
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.loggedOut = append(f.loggedOut, body["refresh_token"])
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "unknown@example.com" {
			pagestest.JSON(w, 404, `{"detail":"No such user"}`)
			return
		}
		f.mu.Lock()
		f.forgot = append(f.forgot, body["email"])
		f.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("POST /auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "good" {
			pagestest.JSON(w, 410, `{"detail":"Token expired"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

type fixture struct {
	backend  *fakeBackend
	client   *apiclient.Client
	sessions sessions.System
	sys      auth.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-jwt",
		"email": "jwt@example.com",
		"name":  "Jo",
		"roles": []string{"learner"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	fb := &fakeBackend{jwt: token}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	cfg := apiclient.Config{BaseURL: srv.URL}
	require.NoError(t, cfg.Finalize(nil))
	client, err := apiclient.New(&cfg, logging.Discard())
	require.NoError(t, err)

	store := sessions.NewMemory(time.Hour, 0, logging.Discard())
	return &fixture{
		backend:  fb,
		client:   client,
		sessions: store,
		sys:      auth.New(client, store, logging.Discard()),
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+c@sub.example.org"}
	invalid := []string{"", "ana", "ana@", "ana@localhost", "Ana <ana@example.com>", " ana@example.com"}

	for _, e := range valid {
		assert.True(t, auth.ValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, auth.ValidEmail(e), e)
	}
}

func TestRegisterCommand_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cmd    auth.RegisterCommand
		fields []string
	}{
		{"valid", auth.RegisterCommand{Name: "Ana", Email: "ana@example.com", Password: "12345678", Confirm: "12345678"}, nil},
		{"short password", auth.RegisterCommand{Name: "Ana", Email: "ana@example.com", Password: "1234567", Confirm: "1234567"}, []string{"password"}},
		{"mismatch", auth.RegisterCommand{Name: "Ana", Email: "ana@example.com", Password: "12345678", Confirm: "87654321"}, []string{"password_confirm"}},
		{"everything", auth.RegisterCommand{Name: "  ", Email: "nope"}, []string{"email", "name", "password"}},
		{"multibyte password", auth.RegisterCommand{Name: "Zoë", Email: "zoe@example.com", Password: "ñññññññ", Confirm: "ñññññññ"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.cmd.Validate()
			var fields []string
			for k := range errs {
				fields = append(fields, k)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestLoginCommand_ValidateTrimsEmail(t *testing.T) {
	cmd := auth.LoginCommand{Email: "  ana@example.com ", Password: "x"}
	assert.False(t, cmd.Validate().Any())
	assert.Equal(t, "ana@example.com", cmd.Email)
}

func TestService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	sess, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@example.com", Password: password})
	require.NoError(t, err)

	assert.Equal(t, "u-ana", sess.UserID)
	assert.Equal(t, "ana", sess.DisplayName)
	assert.Equal(t, []string{"learner"}, sess.Roles)

	found, err := f.sessions.Find(ctx, sess.ID)
	require.NoError(t, err)
	stored, ok := found.Get()
	require.True(t, ok)
	assert.Equal(t, "acc-ana", stored.AccessToken)
	assert.Equal(t, "ref-ana", stored.RefreshToken)
}

func TestService_LoginIdentitySources(t *testing.T) {
	f := newFixture(t)

	sess, err := f.sys.Login(t.Context(), auth.LoginCommand{Email: "jwt@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "u-jwt", sess.UserID)
	assert.Equal(t, "Jo", sess.DisplayName)
	assert.Equal(t, []string{"learner"}, sess.Roles)

	sess, err = f.sys.Login(t.Context(), auth.LoginCommand{Email: "me@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "u-me", sess.UserID)
	assert.Equal(t, "Mei", sess.DisplayName)
}

func TestService_LoginFailures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		cmd  auth.LoginCommand
		want error
	}{
		{auth.LoginCommand{Email: "ana@example.com", Password: "wrong"}, auth.ErrInvalidCredentials},
		{auth.LoginCommand{Email: "disabled@example.com", Password: password}, auth.ErrInactive},
		{auth.LoginCommand{Email: "not-an-email", Password: password}, auth.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Email, func(t *testing.T) {
			_, err := f.sys.Login(t.Context(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_Register(t *testing.T) {
	f := newFixture(t)

	sess, err := f.sys.Register(t.Context(), auth.RegisterCommand{
		Name: "Bea", Email: "bea@example.com", Password: password, Confirm: password,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-bea", sess.UserID)

	_, err = f.sys.Register(t.Context(), auth.RegisterCommand{
		Name: "Tom", Email: "taken@example.com", Password: password, Confirm: password,
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.Equal(t, "Email already registered", apiclient.MessageOf(err))
}

func TestService_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	sess, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@example.com", Password: password})
	require.NoError(t, err)

	require.NoError(t, f.sys.Logout(ctx, sess.ID))
	assert.Equal(t, []string{"ref-ana"}, f.backend.loggedOut)

	found, err := f.sessions.Find(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, found.IsAbsent())

	require.NoError(t, f.sys.Logout(ctx, uuid.New()))
}

func TestService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.sys.ForgotPassword(ctx, "ana@example.com"))
	require.NoError(t, f.sys.ForgotPassword(ctx, "unknown@example.com"))
	assert.Equal(t, []string{"ana@example.com"}, f.backend.forgot)
	assert.ErrorIs(t, f.sys.ForgotPassword(ctx, "nope"), auth.ErrInvalid)

	require.NoError(t, f.sys.ResetPassword(ctx, auth.ResetCommand{Token: "good", Password: password, Confirm: password}))
	err := f.sys.ResetPassword(ctx, auth.ResetCommand{Token: "stale", Password: password, Confirm: password})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/dashboard/quizzes?page=2": "/dashboard/quizzes?page=2",
		"/admin":                    "/admin",
		"":                          "",
		"https://evil.example":      "",
		"//evil.example/path":       "",
		"/\\evil.example":           "",
		"dashboard":                 "",
		"/login?next=/admin":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, auth.SafeNext(in), in)
	}
}

func newMiddleware(t *testing.T, f *fixture) *auth.Middleware {
	return auth.NewMiddleware(f.sessions, f.client, cookie, pagestest.Renderer(t), logging.Discard())
}

func withCookie(r *http.Request, id uuid.UUID) *http.Request {
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: id.String()})
	return r
}

func TestMiddleware_Authenticate(t *testing.T) {
	f := newFixture(t)
	m := newMiddleware(t, f)

	sess, err := f.sys.Login(t.Context(), auth.LoginCommand{Email: "ana@example.com", Password: password})
	require.NoError(t, err)

	var (
		viewer    *web.Viewer
		callerErr error
		sessionID uuid.UUID
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer = web.ViewerFrom(r.Context())
		_, callerErr = apiclient.FromContext(r.Context())
		sessionID, _ = auth.SessionID(r.Context())
	})

	w := httptest.NewRecorder()
	m.Authenticate(inner).ServeHTTP(w, withCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), sess.ID))

	require.NotNil(t, viewer)
	assert.Equal(t, "u-ana", viewer.ID)
	assert.NoError(t, callerErr)
	assert.Equal(t, sess.ID, sessionID)

	t.Run("stale cookie is cleared", func(t *testing.T) {
		viewer = nil
		w := httptest.NewRecorder()
		m.Authenticate(inner).ServeHTTP(w, withCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), uuid.New()))

		assert.Nil(t, viewer)
		assert.ErrorIs(t, callerErr, apiclient.ErrSessionExpired)
		require.Len(t, w.Result().Cookies(), 1)
		assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
	})
}

func TestMiddleware_Guards(t *testing.T) {
	f := newFixture(t)
	m := newMiddleware(t, f)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	learner := &web.Viewer{ID: "u1", Roles: []string{"learner"}, Permissions: []string{"courses:read"}}
	admin := &web.Viewer{ID: "u2", Roles: []string{"admin"}}

	tests := []struct {
		name   string
		mw     func(http.Handler) http.Handler
		viewer *web.Viewer
		status int
	}{
		{"session anonymous", m.RequireSession, nil, http.StatusSeeOther},
		{"session signed in", m.RequireSession, learner, http.StatusTeapot},
		{"permission held", m.RequirePermission("courses:read"), learner, http.StatusTeapot},
		{"permission missing", m.RequirePermission("users:write"), learner, http.StatusForbidden},
		{"admin holds every permission", m.RequirePermission("users:write"), admin, http.StatusTeapot},
		{"permission anonymous", m.RequirePermission("courses:read"), nil, http.StatusSeeOther},
		{"role held", m.RequireRole("admin"), admin, http.StatusTeapot},
		{"role missing", m.RequireRole("admin"), learner, http.StatusForbidden},
		{"any permission", m.RequireAnyPermission("users:read", "courses:read"), learner, http.StatusTeapot},
		{"guest only signed in", m.GuestOnly, learner, http.StatusSeeOther},
		{"guest only anonymous", m.GuestOnly, nil, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/users?page=2", nil)
			if tt.viewer != nil {
				r = r.WithContext(web.WithViewer(r.Context(), tt.viewer))
			}
			w := httptest.NewRecorder()
			tt.mw(ok).ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMiddleware_RedirectKeepsFullPath(t *testing.T) {
	f := newFixture(t)
	m := newMiddleware(t, f)

	r := httptest.NewRequest(http.MethodGet, "/admin/users?page=2", nil)
	r.URL.Path = "/users"
	w := httptest.NewRecorder()
	m.RequireSession(http.NotFoundHandler()).ServeHTTP(w, r)

	assert.Equal(t, "/login?next=%2Fadmin%2Fusers%3Fpage%3D2", w.Header().Get("Location"))
}

func newHandler(t *testing.T, f *fixture) *auth.Handler {
	r := pagestest.Renderer(t, "auth_login.html", "auth_register.html", "auth_forgot.html", "auth_reset.html", "dashboard_profile.html")
	return auth.NewHandler(f.sys, cookie, r, r, logging.Discard())
}

func post(target string, form url.Values) *http.Request {
	return pagestest.Post(context.Background(), target, form)
}

func TestHandler_Login(t *testing.T) {
	f := newFixture(t)
	h := newHandler(t, f)

	t.Run("success redirects to next", func(t *testing.T) {
		w := pagestest.Serve("POST /login", h.Login, post("/login", url.Values{
			"email": {"ana@example.com"}, "password": {password}, "next": {"/dashboard/quizzes"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard/quizzes", w.Header().Get("Location"))

		var sid string
		for _, c := range w.Result().Cookies() {
			if c.Name == cookie.Name {
				sid = c.Value
			}
		}
		id, err := uuid.Parse(sid)
		require.NoError(t, err)
		found, _ := f.sessions.Find(t.Context(), id)
		assert.True(t, found.IsPresent())
	})

	t.Run("admin lands on admin home", func(t *testing.T) {
		w := pagestest.Serve("POST /login", h.Login, post("/login", url.Values{
			"email": {"admin@example.com"}, "password": {password}, "next": {"https://evil.example"},
		}))
		assert.Equal(t, "/admin", w.Header().Get("Location"))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := pagestest.Serve("POST /login", h.Login, post("/login", url.Values{
			"email": {"ana@example.com"}, "password": {"wrong"},
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "error:email=Email or password is incorrect.")
		assert.Contains(t, body, "form:email=ana@example.com")
		assert.NotContains(t, body, "wrong")
	})

	t.Run("validation", func(t *testing.T) {
		w := pagestest.Serve("POST /login", h.Login, post("/login", url.Values{"email": {"ana"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "error:email=Enter a valid email address.")
		assert.Contains(t, w.Body.String(), "error:password=Enter your password.")
	})
}

func TestHandler_LoginFormKeepsSafeNext(t *testing.T) {
	h := newHandler(t, newFixture(t))

	w := pagestest.Serve("GET /login", h.LoginForm, pagestest.Get(context.Background(), "/login?next=%2Fadmin%2Fcourses"))
	assert.Contains(t, w.Body.String(), "form:next=/admin/courses")

	w = pagestest.Serve("GET /login", h.LoginForm, pagestest.Get(context.Background(), "/login?next=%2F%2Fevil.example"))
	assert.Contains(t, w.Body.String(), "form:next=\n")
}

func TestHandler_Register(t *testing.T) {
	h := newHandler(t, newFixture(t))

	w := pagestest.Serve("POST /register", h.Register, post("/register", url.Values{
		"name": {"Tom"}, "email": {"taken@example.com"}, "password": {password}, "password_confirm": {password},
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "error:email=An account with this email already exists.")

	w = pagestest.Serve("POST /register", h.Register, post("/register", url.Values{
		"name": {"Bea"}, "email": {"bea@example.com"}, "password": {password}, "password_confirm": {"different"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error:password_confirm=Passwords do not match.")

	w = pagestest.Serve("POST /register", h.Register, post("/register", url.Values{
		"name": {"Bea"}, "email": {"bea@example.com"}, "password": {password}, "password_confirm": {password},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)
	h := newHandler(t, f)

	sess, err := f.sys.Login(t.Context(), auth.LoginCommand{Email: "ana@example.com", Password: password})
	require.NoError(t, err)

	w := pagestest.Serve("POST /logout", h.Logout, withCookie(post("/logout", nil), sess.ID))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	found, _ := f.sessions.Find(t.Context(), sess.ID)
	assert.True(t, found.IsAbsent())
	assert.Equal(t, []string{"ref-ana"}, f.backend.loggedOut)
}

func TestHandler_Reset(t *testing.T) {
	h := newHandler(t, newFixture(t))

	w := pagestest.Serve("GET /reset-password", h.ResetForm, pagestest.Get(context.Background(), "/reset-password"))
	assert.Equal(t, "/forgot-password", w.Header().Get("Location"))

	w = pagestest.Serve("POST /reset-password", h.Reset, post("/reset-password", url.Values{
		"token": {"stale"}, "password": {password}, "password_confirm": {password},
	}))
	assert.Equal(t, "/forgot-password", w.Header().Get("Location"))

	w = pagestest.Serve("POST /reset-password", h.Reset, post("/reset-password", url.Values{
		"token": {"good"}, "password": {"short"}, "password_confirm": {"short"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "form:token=good")

	w = pagestest.Serve("POST /reset-password", h.Reset, post("/reset-password", url.Values{
		"token": {"good"}, "password": {password}, "password_confirm": {password},
	}))
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestHandler_Forgot(t *testing.T) {
	f := newFixture(t)
	h := newHandler(t, f)

	w := pagestest.Serve("POST /forgot-password", h.Forgot, post("/forgot-password", url.Values{"email": {"unknown@example.com"}}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, f.backend.forgot)
}
