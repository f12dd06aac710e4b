// Package sessions keeps the backend tokens of signed-in browsers on the
// server. The browser only holds an opaque session id cookie.
package sessions

import (
	"context"
	"embed"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/database"
	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations creates the sessions table.
var Migrations = &database.Migrations{
	FS:    migrationFS,
	Dir:   "migrations",
	Table: "sessions_schema_migrations",
}

var ErrNotFound = errors.New("session not found")

// Session is a signed-in browser.
type Session struct {
	ID           uuid.UUID
	UserID       string
	Email        string
	DisplayName  string
	Roles        []string
	Permissions  []string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Viewer projects the session for templates and authorization checks.
func (s *Session) Viewer() *web.Viewer {
	return &web.Viewer{
		ID:          s.UserID,
		Name:        s.DisplayName,
		Email:       s.Email,
		Roles:       slices.Clone(s.Roles),
		Permissions: slices.Clone(s.Permissions),
	}
}

// Tokens returns the backend token pair.
func (s *Session) Tokens() apiclient.Tokens {
	return apiclient.Tokens{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// CreateCommand carries the identity and tokens returned by sign-in.
type CreateCommand struct {
	UserID       string
	Email        string
	DisplayName  string
	Roles        []string
	Permissions  []string
	AccessToken  string
	RefreshToken string
}

// System stores sessions.
type System interface {
	Create(ctx context.Context, cmd CreateCommand) (*Session, error)

	// Find returns None for unknown and expired sessions.
	Find(ctx context.Context, id uuid.UUID) (mo.Option[*Session], error)

	UpdateTokens(ctx context.Context, id uuid.UUID, tokens apiclient.Tokens) error

	// Delete is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error

	// Purge removes expired sessions and reports how many were removed.
	Purge(ctx context.Context) (int64, error)

	// Store adapts one session to the API client's TokenStore.
	Store(id uuid.UUID) apiclient.TokenStore

	Start(lc *lifecycle.Coordinator) error
}
