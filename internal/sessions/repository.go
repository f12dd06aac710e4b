package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/mo"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
	"github.com/JaimeStill/lingua-web/pkg/repository"
)

const projection = `id, user_id, email, display_name, roles, permissions,
	access_token, refresh_token, expires_at, created_at, updated_at`

type repo struct {
	db            *sql.DB
	ttl           time.Duration
	purgeInterval time.Duration
	logger        *slog.Logger
}

// New creates the Postgres-backed session system.
func New(db *sql.DB, ttl, purgeInterval time.Duration, logger *slog.Logger) System {
	return &repo{
		db:            db,
		ttl:           ttl,
		purgeInterval: purgeInterval,
		logger:        logger.With("system", "sessions"),
	}
}

func scanSession(s repository.Scanner) (*Session, error) {
	types := pgtype.NewMap()
	var out Session
	err := s.Scan(
		&out.ID, &out.UserID, &out.Email, &out.DisplayName,
		types.SQLScanner(&out.Roles), types.SQLScanner(&out.Permissions),
		&out.AccessToken, &out.RefreshToken,
		&out.ExpiresAt, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	q := `
		INSERT INTO sessions (id, user_id, email, display_name, roles, permissions,
			access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + projection

	args := []any{
		uuid.New(), cmd.UserID, cmd.Email, cmd.DisplayName,
		nonNil(cmd.Roles), nonNil(cmd.Permissions),
		cmd.AccessToken, cmd.RefreshToken, time.Now().Add(r.ttl),
	}

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	r.logger.Info("session created", "user_id", s.UserID)
	return s, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (mo.Option[*Session], error) {
	q := `SELECT ` + projection + ` FROM sessions WHERE id = $1 AND expires_at > NOW()`

	s, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanSession)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*Session](), nil
		}
		return mo.None[*Session](), fmt.Errorf("find session: %w", err)
	}
	return mo.Some(s), nil
}

func (r *repo) UpdateTokens(ctx context.Context, id uuid.UUID, tokens apiclient.Tokens) error {
	q := `
		UPDATE sessions
		SET access_token = $1, refresh_token = $2, updated_at = NOW()
		WHERE id = $3`

	err := repository.ExecExpectOne(ctx, r.db, q, tokens.AccessToken, tokens.RefreshToken, id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *repo) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

func (r *repo) Store(id uuid.UUID) apiclient.TokenStore {
	return NewTokenStore(r, id)
}

func (r *repo) Start(lc *lifecycle.Coordinator) error {
	startPurger(lc, r, r.purgeInterval, r.logger)
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
