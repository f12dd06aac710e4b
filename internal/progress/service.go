package progress

import (
	"context"
	"log/slog"

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
		logger:     logger.With("system", "progress"),
	}
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[UserProgress], error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)
	var result pagination.PageResult[UserProgress]
	if err := api.Get(ctx, "/progress", page.Values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) All(ctx context.Context) ([]UserProgress, error) {
	rows, err := pagination.Collect(ctx, s.pagination.MaxPageSize, s.List)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("progress collected", "rows", len(rows))
	return rows, nil
}
