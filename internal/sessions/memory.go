package sessions

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
)

type memory struct {
	mu            sync.RWMutex
	sessions      map[uuid.UUID]Session
	ttl           time.Duration
	purgeInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// NewMemory creates a process-local session system for single-instance
// deployments and tests. Sessions are lost on restart.
func NewMemory(ttl, purgeInterval time.Duration, logger *slog.Logger) System {
	return &memory{
		sessions:      make(map[uuid.UUID]Session),
		ttl:           ttl,
		purgeInterval: purgeInterval,
		now:           time.Now,
		logger:        logger.With("system", "sessions"),
	}
}

func (m *memory) Create(ctx context.Context, cmd CreateCommand) (*Session, error) {
	now := m.now()
	s := Session{
		ID:           uuid.New(),
		UserID:       cmd.UserID,
		Email:        cmd.Email,
		DisplayName:  cmd.DisplayName,
		Roles:        slices.Clone(nonNil(cmd.Roles)),
		Permissions:  slices.Clone(nonNil(cmd.Permissions)),
		AccessToken:  cmd.AccessToken,
		RefreshToken: cmd.RefreshToken,
		ExpiresAt:    now.Add(m.ttl),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	out := s
	return &out, nil
}

func (m *memory) Find(ctx context.Context, id uuid.UUID) (mo.Option[*Session], error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || !s.ExpiresAt.After(m.now()) {
		return mo.None[*Session](), nil
	}
	s.Roles = slices.Clone(s.Roles)
	s.Permissions = slices.Clone(s.Permissions)
	return mo.Some(&s), nil
}

func (m *memory) UpdateTokens(ctx context.Context, id uuid.UUID, tokens apiclient.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.AccessToken = tokens.AccessToken
	s.RefreshToken = tokens.RefreshToken
	s.UpdatedAt = m.now()
	m.sessions[id] = s
	return nil
}

func (m *memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *memory) Purge(ctx context.Context) (int64, error) {
	now := m.now()
	var n int64

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memory) Store(id uuid.UUID) apiclient.TokenStore {
	return NewTokenStore(m, id)
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	startPurger(lc, m, m.purgeInterval, m.logger)
	return nil
}
