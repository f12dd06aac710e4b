package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/internal/sessions"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/routes"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const (
	viewLogin    = "auth_login.html"
	viewRegister = "auth_register.html"
	viewForgot   = "auth_forgot.html"
	viewReset    = "auth_reset.html"
	viewProfile  = "dashboard_profile.html"
)

// Handler serves the sign-in, registration and password reset pages.
type Handler struct {
	sys     System
	cookie  sessions.Cookie
	pages   *pages.Renderer
	learner *pages.Renderer
	logger  *slog.Logger
}

// NewHandler renders the auth forms with pages and the profile with learner.
func NewHandler(sys System, cookie sessions.Cookie, pages, learner *pages.Renderer, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, cookie: cookie, pages: pages, learner: learner, logger: logger}
}

// Routes are the public auth pages. guestOnly keeps signed-in viewers out
// of the sign-in forms.
func (h *Handler) Routes(guestOnly func(http.Handler) http.Handler) routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Middleware: []func(http.Handler) http.Handler{guestOnly},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/login", Handler: h.LoginForm},
					{Method: "POST", Pattern: "/login", Handler: h.Login},
					{Method: "GET", Pattern: "/register", Handler: h.RegisterForm},
					{Method: "POST", Pattern: "/register", Handler: h.Register},
					{Method: "GET", Pattern: "/forgot-password", Handler: h.ForgotForm},
					{Method: "POST", Pattern: "/forgot-password", Handler: h.Forgot},
					{Method: "GET", Pattern: "/reset-password", Handler: h.ResetForm},
					{Method: "POST", Pattern: "/reset-password", Handler: h.Reset},
				},
			},
			{
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/logout", Handler: h.Logout},
				},
			},
		},
	}
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{"next": SafeNext(r.URL.Query().Get("next"))}
	h.pages.Form(w, r, http.StatusOK, viewLogin, "Sign in", form, nil, nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	cmd := LoginCommand{Email: form["email"], Password: r.PostForm.Get("password")}

	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewLogin, "Sign in", form, errs, nil)
		return
	}

	sess, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			msg = "Email or password is incorrect."
		case errors.Is(err, ErrInactive):
			msg = "This account has been disabled."
		case errors.Is(err, ErrInvalid):
			msg = apiclient.MessageOf(err)
		default:
			h.pages.Fail(w, r, err, MapHTTPStatus(err))
			return
		}
		h.pages.Form(w, r, MapHTTPStatus(err), viewLogin, "Sign in", form, web.FormErrors{"email": msg}, nil)
		return
	}

	h.cookie.Set(w, sess)
	target := SafeNext(form["next"])
	if target == "" {
		target = Home(sess.Viewer())
	}
	h.pages.Redirect(w, r, target, web.FlashSuccess, "Welcome back, "+sess.DisplayName+".")
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, viewRegister, "Create your account", nil, nil, nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	cmd := RegisterCommand{
		Name:     form["name"],
		Email:    form["email"],
		Password: r.PostForm.Get("password"),
		Confirm:  r.PostForm.Get("password_confirm"),
	}

	if errs := cmd.Validate(); errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewRegister, "Create your account", form, errs, nil)
		return
	}

	sess, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		var errs web.FormErrors
		switch {
		case errors.Is(err, ErrEmailTaken):
			errs = web.FormErrors{"email": "An account with this email already exists."}
		case errors.Is(err, ErrInvalid):
			errs = web.FormErrors{"email": apiclient.MessageOf(err)}
		default:
			h.pages.Fail(w, r, err, MapHTTPStatus(err))
			return
		}
		h.pages.Form(w, r, MapHTTPStatus(err), viewRegister, "Create your account", form, errs, nil)
		return
	}

	h.cookie.Set(w, sess)
	h.pages.Redirect(w, r, "/dashboard", web.FlashSuccess, "Welcome to Lingua, "+sess.DisplayName+"!")
}

// Logout ends the session, whether or not one is still live.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := SessionID(r.Context())
	if !ok {
		id, ok = h.cookie.ID(r)
	}
	if ok {
		if err := h.sys.Logout(r.Context(), id); err != nil {
			h.logger.Error("sign-out failed", "error", err)
		}
	}
	h.cookie.Clear(w)
	h.pages.Redirect(w, r, "/login", web.FlashInfo, "You have been signed out.")
}

func (h *Handler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, viewForgot, "Reset your password", nil, nil, nil)
}

func (h *Handler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)

	errs := web.FormErrors{}
	validateEmail(errs, form["email"])
	if errs.Any() {
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewForgot, "Reset your password", form, errs, nil)
		return
	}

	if err := h.sys.ForgotPassword(r.Context(), form["email"]); err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Redirect(w, r, "/login", web.FlashInfo, "If an account exists for that address, a reset link is on its way.")
}

func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.pages.Redirect(w, r, "/forgot-password", web.FlashError, "This reset link is invalid or has expired.")
		return
	}
	h.pages.Form(w, r, http.StatusOK, viewReset, "Choose a new password", map[string]string{"token": token}, nil, nil)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := web.FormValues(r)
	cmd := ResetCommand{
		Token:    form["token"],
		Password: r.PostForm.Get("password"),
		Confirm:  r.PostForm.Get("password_confirm"),
	}

	if errs := cmd.Validate(); errs.Any() {
		if errs.Get("token") != "" {
			h.pages.Redirect(w, r, "/forgot-password", web.FlashError, "This reset link is invalid or has expired.")
			return
		}
		h.pages.Form(w, r, http.StatusUnprocessableEntity, viewReset, "Choose a new password", form, errs, nil)
		return
	}

	if err := h.sys.ResetPassword(r.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			h.pages.Redirect(w, r, "/forgot-password", web.FlashError, "This reset link is invalid or has expired.")
		case errors.Is(err, ErrInvalid):
			h.pages.Form(w, r, MapHTTPStatus(err), viewReset, "Choose a new password", form,
				web.FormErrors{"password": apiclient.MessageOf(err)}, nil)
		default:
			h.pages.Fail(w, r, err, MapHTTPStatus(err))
		}
		return
	}
	h.pages.Redirect(w, r, "/login", web.FlashSuccess, "Your password has been changed. Sign in with the new one.")
}

// ProfileRoutes is the learner's account page.
func (h *Handler) ProfileRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/profile", Handler: h.Profile},
		},
	}
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	me, err := h.sys.Me(r.Context())
	if err != nil {
		h.learner.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.learner.Page(w, r, viewProfile, "Your account", me)
}

// SafeNext returns next when it is a local path, else "".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	if u.Path == "/login" || u.Path == "/logout" {
		return ""
	}
	return next
}
