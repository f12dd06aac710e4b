package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/sessions"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type service struct {
	client   *apiclient.Client
	sessions sessions.System
	logger   *slog.Logger
}

func New(client *apiclient.Client, sessions sessions.System, logger *slog.Logger) System {
	return &service{
		client:   client,
		sessions: sessions,
		logger:   logger.With("system", "auth"),
	}
}

func (s *service) Login(ctx context.Context, cmd LoginCommand) (*sessions.Session, error) {
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var resp tokenResponse
	if err := s.client.Do(ctx, http.MethodPost, "/auth/login", cmd, &resp); err != nil {
		s.logger.Info("sign-in rejected", "email", cmd.Email, "status", apiclient.StatusOf(err))
		return nil, mapLoginError(err)
	}
	return s.open(ctx, &resp)
}

func (s *service) Register(ctx context.Context, cmd RegisterCommand) (*sessions.Session, error) {
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var resp tokenResponse
	if err := s.client.Do(ctx, http.MethodPost, "/auth/register", cmd, &resp); err != nil {
		return nil, mapRegisterError(err)
	}
	s.logger.Info("account registered", "email", cmd.Email)

	// Some backends only create the account; sign in with the same credentials.
	if resp.AccessToken == "" {
		return s.Login(ctx, LoginCommand{Email: cmd.Email, Password: cmd.Password})
	}
	return s.open(ctx, &resp)
}

// open resolves the identity behind resp and stores a session for it. The
// identity comes from the response body, then the token claims, then /auth/me.
func (s *service) open(ctx context.Context, resp *tokenResponse) (*sessions.Session, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrNoIdentity)
	}
	tokens := apiclient.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}

	user := resp.User
	if user == nil || user.ID == "" {
		if c, err := apiclient.ParseClaims(resp.AccessToken); err == nil && c.Subject != "" {
			user = &User{
				ID:          c.Subject,
				Email:       c.Email,
				Name:        c.Name,
				Roles:       c.Roles,
				Permissions: c.Permissions,
			}
		}
	}
	if user == nil || user.ID == "" {
		me, err := s.me(ctx, s.client.WithStore(apiclient.NewMemoryStore("login", tokens)))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoIdentity, err)
		}
		user = me
	}

	name := user.Name
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}

	sess, err := s.sessions.Create(ctx, sessions.CreateCommand{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  name,
		Roles:        user.Roles,
		Permissions:  user.Permissions,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("signed in", "user_id", user.ID, "session", sess.ID)
	return sess, nil
}

func (s *service) Logout(ctx context.Context, id uuid.UUID) error {
	found, err := s.sessions.Find(ctx, id)
	if err != nil {
		s.logger.Warn("session lookup failed during sign-out", "session", id, "error", err)
	}

	if sess, ok := found.Get(); ok && sess.RefreshToken != "" {
		api := s.client.WithStore(s.sessions.Store(id))
		body := map[string]string{"refreshToken": sess.RefreshToken}
		if err := api.Post(ctx, "/auth/logout", body, nil); err != nil && !errors.Is(err, apiclient.ErrSessionExpired) {
			s.logger.Warn("backend sign-out failed", "session", id, "error", err)
		}
	}

	if err := s.sessions.Delete(context.WithoutCancel(ctx), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("signed out", "session", id)
	return nil
}

func (s *service) Me(ctx context.Context) (*User, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.me(ctx, api)
}

func (s *service) me(ctx context.Context, api apiclient.Caller) (*User, error) {
	var u User
	if err := api.Get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return fmt.Errorf("%w: invalid email", ErrInvalid)
	}

	err := s.client.Do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
	if apiclient.StatusOf(err) == http.StatusNotFound {
		err = nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("password reset requested")
	return nil
}

func (s *service) ResetPassword(ctx context.Context, cmd ResetCommand) error {
	if errs := cmd.Validate(); errs.Any() {
		return fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}
	if err := s.client.Do(ctx, http.MethodPost, "/auth/reset-password", cmd, nil); err != nil {
		return mapResetError(err)
	}
	s.logger.Info("password reset")
	return nil
}
