// Package apiclient is the HTTP client for the REST backend. It converts JSON
// keys between camelCase and snake_case, attaches bearer tokens and refreshes
// them on 401 with at most one refresh in flight per session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/lingua-web/pkg/casing"
	"github.com/JaimeStill/lingua-web/pkg/decode"
	"github.com/JaimeStill/lingua-web/pkg/middleware"
)

const (
	maxResponseBytes = 8 << 20
	expirySkew       = 10 * time.Second
)

// Client is shared by every session. It is safe for concurrent use.
type Client struct {
	base        *url.URL
	http        *http.Client
	refreshPath string
	userAgent   string
	logger      *slog.Logger
	refreshes   singleflight.Group
	now         func() time.Time
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base_url: %w", err)
	}

	return &Client{
		base:        base,
		http:        &http.Client{Timeout: cfg.TimeoutDuration()},
		refreshPath: cfg.RefreshPath,
		userAgent:   cfg.UserAgent,
		logger:      logger.With("system", "apiclient"),
		now:         time.Now,
	}, nil
}

// Session is a Client bound to the tokens of one signed-in user.
type Session struct {
	client *Client
	store  TokenStore
}

// WithStore binds the client to store.
func (c *Client) WithStore(store TokenStore) *Session {
	return &Session{client: c, store: store}
}

// Do sends an unauthenticated JSON request, as used by sign-in and password reset.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req, err := newJSONRequest(method, path, nil, body)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, req, "")
	if err != nil {
		return err
	}
	return resp.decode(out)
}

func (s *Session) Get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := newJSONRequest(http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

func (s *Session) Post(ctx context.Context, path string, body, out any) error {
	req, err := newJSONRequest(http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

func (s *Session) Put(ctx context.Context, path string, body, out any) error {
	req, err := newJSONRequest(http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

func (s *Session) Patch(ctx context.Context, path string, body, out any) error {
	req, err := newJSONRequest(http.MethodPatch, path, nil, body)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

func (s *Session) Delete(ctx context.Context, path string, out any) error {
	req, err := newJSONRequest(http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return s.do(ctx, req, out)
}

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Upload posts fields and file as multipart/form-data. Field names are sent in snake_case.
func (s *Session) Upload(ctx context.Context, path string, fields map[string]string, file File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(casing.ToSnake(k), v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, casing.ToSnake(file.Field), file.Name))
	h.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req := &request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}
	return s.do(ctx, req, out)
}

// do sends req with the session's access token. A 401 triggers one shared
// refresh and a single retry; a second 401 is returned to the caller.
func (s *Session) do(ctx context.Context, req *request, out any) error {
	tokens, err := s.store.Tokens(ctx)
	if err != nil && !errors.Is(err, ErrNoTokens) {
		return fmt.Errorf("load tokens: %w", err)
	}

	refreshable := tokens.RefreshToken != "" && req.path != s.client.refreshPath

	if refreshable && expired(tokens.AccessToken, s.client.now(), expirySkew) {
		tokens, err = s.refresh(ctx, tokens.AccessToken)
		if err != nil {
			return err
		}
	}

	resp, err := s.client.send(ctx, req, tokens.AccessToken)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && refreshable {
		tokens, err = s.refresh(ctx, tokens.AccessToken)
		if err != nil {
			return err
		}
		resp, err = s.client.send(ctx, req, tokens.AccessToken)
		if err != nil {
			return err
		}
	}

	return resp.decode(out)
}

// refresh exchanges the refresh token for a new pair. Callers that saw the
// same stale access token share one backend call; a caller whose stale token
// was already replaced gets the stored pair without another call.
func (s *Session) refresh(ctx context.Context, stale string) (Tokens, error) {
	ch := s.client.refreshes.DoChan(s.store.Key(), func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.client.http.Timeout)
		defer cancel()
		return s.exchange(rctx, stale)
	})

	select {
	case <-ctx.Done():
		return Tokens{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Tokens{}, res.Err
		}
		return res.Val.(Tokens), nil
	}
}

func (s *Session) exchange(ctx context.Context, stale string) (Tokens, error) {
	current, err := s.store.Tokens(ctx)
	if err != nil && !errors.Is(err, ErrNoTokens) {
		return Tokens{}, fmt.Errorf("load tokens: %w", err)
	}
	if current.AccessToken != "" && current.AccessToken != stale {
		return current, nil
	}
	if current.RefreshToken == "" {
		s.expire(ctx)
		return Tokens{}, ErrSessionExpired
	}

	req, err := newJSONRequest(http.MethodPost, s.client.refreshPath, nil, map[string]any{
		"refreshToken": current.RefreshToken,
	})
	if err != nil {
		return Tokens{}, err
	}

	resp, err := s.client.send(ctx, req, "")
	if err != nil {
		s.client.logger.Warn("token refresh failed", "session", s.store.Key(), "error", err)
		s.expire(ctx)
		return Tokens{}, ErrSessionExpired
	}

	var next Tokens
	if err := resp.decode(&next); err != nil || next.AccessToken == "" {
		s.client.logger.Info("token refresh rejected", "session", s.store.Key(), "status", resp.status)
		s.expire(ctx)
		return Tokens{}, ErrSessionExpired
	}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}

	if err := s.store.SaveTokens(ctx, next); err != nil {
		return Tokens{}, fmt.Errorf("save tokens: %w", err)
	}

	s.client.logger.Debug("token refreshed", "session", s.store.Key())
	return next, nil
}

func (s *Session) expire(ctx context.Context) {
	if err := s.store.ClearTokens(ctx); err != nil {
		s.client.logger.Error("clear tokens failed", "session", s.store.Key(), "error", err)
	}
}

type request struct {
	method      string
	path        string
	params      url.Values
	body        []byte
	contentType string
}

// newJSONRequest encodes body with snake_case keys. Numbers keep their exact
// representation through the key rewrite.
func newJSONRequest(method, path string, params url.Values, body any) (*request, error) {
	req := &request{method: method, path: path, params: params}
	if body == nil {
		return req, nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req.body, err = json.Marshal(casing.ConvertKeys(generic, casing.ToSnake))
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	req.contentType = "application/json"
	return req, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, req *request, access string) (*response, error) {
	u := c.base.JoinPath(req.path)
	if len(req.params) > 0 {
		u.RawQuery = req.params.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", c.userAgent)
	if req.contentType != "" {
		hreq.Header.Set("Content-Type", req.contentType)
	}
	if access != "" {
		hreq.Header.Set("Authorization", "Bearer "+access)
	}
	if id := middleware.RequestIDFrom(ctx); id != "" {
		hreq.Header.Set(middleware.HeaderRequestID, id)
	}

	start := time.Now()
	hresp, err := c.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(hresp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("backend call",
		"method", req.method,
		"path", req.path,
		"status", hresp.StatusCode,
		"duration", time.Since(start))

	return &response{status: hresp.StatusCode, body: data}, nil
}

// decode maps non-2xx to *Error and otherwise decodes the camelCased body into out.
func (r *response) decode(out any) error {
	if r.status < 200 || r.status > 299 {
		return newError(r.status, r.body)
	}
	trimmed := bytes.TrimSpace(r.body)
	if out == nil || r.status == http.StatusNoContent || len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return json.Unmarshal(trimmed, out)
	}

	dec := json.NewDecoder(bytes.NewReader(r.body))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := decode.Into(casing.ConvertKeys(generic, casing.ToCamel), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
