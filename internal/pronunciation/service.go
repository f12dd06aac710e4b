package pronunciation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/storage"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

type service struct {
	store  storage.System
	logger *slog.Logger
}

func New(store storage.System, logger *slog.Logger) System {
	return &service{
		store:  store,
		logger: logger.With("system", "pronunciation"),
	}
}

func (s *service) MaxUploadSize() int64 {
	return s.store.MaxSize()
}

func (s *service) Assess(ctx context.Context, reference string, audio Audio) (*Assessment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrNoReference
	}
	if utf8.RuneCountInString(reference) > MaxReference {
		return nil, ErrReferenceTooLong
	}
	if !IsAudio(audio.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotAudio, audio.ContentType)
	}

	viewer, err := viewerKey(ctx)
	if err != nil {
		return nil, err
	}
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.read(audio.Body)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := recordingKey(viewer, id)
	if _, err := s.store.Store(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store recording: %w", mapStorageError(err))
	}

	var res Response
	file := apiclient.File{
		Field:       "audio",
		Name:        audio.Name,
		ContentType: audio.ContentType,
		Data:        data,
	}
	if err := api.Upload(ctx, "/pronunciation/assess", map[string]string{"referenceText": reference}, file, &res); err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Warn("recording cleanup failed", "key", key, "error", derr)
		}
		return nil, mapError(err)
	}

	s.logger.Info("pronunciation assessed", "recording", id, "bytes", len(data), "score", res.Score)
	return &Assessment{Reference: reference, Recording: id, Result: &res}, nil
}

func (s *service) Recording(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	viewer, err := viewerKey(ctx)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Open(ctx, recordingKey(viewer, id))
	if err != nil {
		return nil, mapStorageError(err)
	}
	return rc, nil
}

// read buffers the upload, failing once it passes the storage limit.
func (s *service) read(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrNoAudio
	}
	limit := s.store.MaxSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudio
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// viewerKey scopes recordings to the signed-in learner.
func viewerKey(ctx context.Context) (string, error) {
	v := web.ViewerFrom(ctx)
	if v == nil || v.ID == "" {
		return "", apiclient.ErrSessionExpired
	}
	if strings.ContainsAny(v.ID, `/\.`) {
		return "", fmt.Errorf("%w: viewer id %q", ErrNotFound, v.ID)
	}
	return v.ID, nil
}

func recordingKey(viewer string, id uuid.UUID) string {
	return "recordings/" + viewer + "/" + id.String()
}
