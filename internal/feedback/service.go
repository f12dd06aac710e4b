package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

type service struct {
	pagination pagination.Config
	logger     *slog.Logger
}

func New(pagination pagination.Config, logger *slog.Logger) System {
	return &service{
		pagination: pagination,
		logger:     logger.With("system", "feedback"),
	}
}

func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Feedback], error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)
	params := page.Values()
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}

	var result pagination.PageResult[Feedback]
	if err := api.Get(ctx, "/feedback", params, &result); err != nil {
		return nil, mapError(err)
	}
	return &result, nil
}

func (s *service) Submit(ctx context.Context, cmd Command) (*Feedback, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var f Feedback
	if err := api.Post(ctx, "/feedback", cmd, &f); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("feedback submitted", "id", f.ID, "category", cmd.Category, "rating", cmd.Rating)
	return &f, nil
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var f Feedback
	if err := api.Patch(ctx, "/feedback/"+id.String(), map[string]string{"status": StatusResolved}, &f); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("feedback resolved", "id", id)
	return &f, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}
	if err := api.Delete(ctx, "/feedback/"+id.String(), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("feedback deleted", "id", id)
	return nil
}
