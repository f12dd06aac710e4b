package apiclient

import (
	"context"
	"net/url"
)

// Caller is the authenticated request surface used by service modules.
type Caller interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path string, fields map[string]string, file File, out any) error
}

type callerKey struct{}

// NewContext attaches the signed-in caller to ctx.
func NewContext(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller attached by NewContext. Without one the
// request is treated as an expired session.
func FromContext(ctx context.Context) (Caller, error) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || c == nil {
		return nil, ErrSessionExpired
	}
	return c, nil
}
