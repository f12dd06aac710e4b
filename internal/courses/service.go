package courses

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/slug"
)

type service struct {
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the course service. Calls are made as the caller attached to
// the request context.
func New(logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		logger:     logger.With("system", "courses"),
		pagination: pagination,
	}
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Course], error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)

	var result pagination.PageResult[Course]
	if err := api.Get(ctx, "/courses", page.Values(), &result); err != nil {
		return nil, mapError(err)
	}
	return &result, nil
}

func (s *service) All(ctx context.Context) ([]Course, error) {
	return pagination.Collect(ctx, s.pagination.MaxPageSize, func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Course], error) {
		return s.List(ctx, page)
	})
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Course, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c Course
	if err := api.Get(ctx, "/courses/"+id.String(), nil, &c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (s *service) Create(ctx context.Context, cmd Command) (*Course, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	auto := cmd.Slug == ""
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}
	if auto {
		cmd.Slug = slug.Unique(cmd.Slug, func(candidate string) bool {
			return s.slugTaken(ctx, api, candidate)
		})
	}

	var c Course
	if err := api.Post(ctx, "/courses", cmd, &c); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("course created", "id", c.ID, "slug", c.Slug)
	return &c, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Course, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var c Course
	if err := api.Put(ctx, "/courses/"+id.String(), cmd, &c); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("course updated", "id", c.ID)
	return &c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}

	if err := api.Delete(ctx, "/courses/"+id.String(), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("course deleted", "id", id)
	return nil
}

// slugTaken asks the backend whether a course already uses candidate. Lookup
// failures count as free and the backend's own uniqueness check decides.
func (s *service) slugTaken(ctx context.Context, api apiclient.Caller, candidate string) bool {
	var result pagination.PageResult[Course]
	params := url.Values{"slug": {candidate}, "page_size": {"1"}}
	if err := api.Get(ctx, "/courses", params, &result); err != nil {
		return false
	}
	for _, c := range result.Data {
		if c.Slug == candidate {
			return true
		}
	}
	return false
}
