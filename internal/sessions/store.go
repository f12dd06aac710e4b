package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type tokenStore struct {
	sys System
	id  uuid.UUID
}

// NewTokenStore exposes the tokens of session id to the API client. Clearing
// the tokens ends the session.
func NewTokenStore(sys System, id uuid.UUID) apiclient.TokenStore {
	return &tokenStore{sys: sys, id: id}
}

func (t *tokenStore) Key() string {
	return t.id.String()
}

func (t *tokenStore) Tokens(ctx context.Context) (apiclient.Tokens, error) {
	found, err := t.sys.Find(ctx, t.id)
	if err != nil {
		return apiclient.Tokens{}, err
	}
	s, ok := found.Get()
	if !ok {
		return apiclient.Tokens{}, apiclient.ErrNoTokens
	}
	return s.Tokens(), nil
}

func (t *tokenStore) SaveTokens(ctx context.Context, tokens apiclient.Tokens) error {
	return t.sys.UpdateTokens(ctx, t.id, tokens)
}

func (t *tokenStore) ClearTokens(ctx context.Context) error {
	return t.sys.Delete(ctx, t.id)
}
