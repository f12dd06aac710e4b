package apiclient

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/lingua-web/pkg/decode"
)

// Tokens is the bearer pair issued by the backend.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenStore persists the tokens of one signed-in session.
type TokenStore interface {
	// Key identifies the session; concurrent refreshes are collapsed per key.
	Key() string
	Tokens(ctx context.Context) (Tokens, error)
	SaveTokens(ctx context.Context, t Tokens) error
	ClearTokens(ctx context.Context) error
}

// MemoryStore is a TokenStore held in memory.
type MemoryStore struct {
	key    string
	mu     sync.Mutex
	tokens Tokens
}

func NewMemoryStore(key string, t Tokens) *MemoryStore {
	return &MemoryStore{key: key, tokens: t}
}

func (m *MemoryStore) Key() string { return m.key }

func (m *MemoryStore) Tokens(ctx context.Context) (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens.AccessToken == "" && m.tokens.RefreshToken == "" {
		return Tokens{}, ErrNoTokens
	}
	return m.tokens, nil
}

func (m *MemoryStore) SaveTokens(ctx context.Context, t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = t
	return nil
}

func (m *MemoryStore) ClearTokens(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	return nil
}

// Claims are the identity fields carried by a backend access token.
type Claims struct {
	Subject     string    `json:"sub"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"-"`
}

// ParseClaims reads the claims of a JWT access token without verifying its
// signature. Verification is the backend's job; the claims only drive
// navigation and proactive refresh.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}

	c, err := decode.FromMap[Claims](mc)
	if err != nil {
		return Claims{}, err
	}

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// expired reports whether token is a JWT whose exp is within skew of now.
// Opaque tokens never count as expired.
func expired(token string, now time.Time, skew time.Duration) bool {
	if token == "" {
		return false
	}
	c, err := ParseClaims(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !c.ExpiresAt.After(now.Add(skew))
}
