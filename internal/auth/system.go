// Package auth signs learners and admins in and out, and guards pages by
// session, role and permission.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/internal/sessions"
)

type System interface {
	// Login exchanges credentials for backend tokens and opens a session.
	Login(ctx context.Context, cmd LoginCommand) (*sessions.Session, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, cmd RegisterCommand) (*sessions.Session, error)

	// Logout revokes the backend refresh token when possible and always
	// deletes the local session.
	Logout(ctx context.Context, id uuid.UUID) error

	// Me returns the signed-in user as the backend sees them.
	Me(ctx context.Context) (*User, error)

	// ForgotPassword asks the backend to mail a reset link. Unknown
	// addresses are not reported.
	ForgotPassword(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, cmd ResetCommand) error
}
