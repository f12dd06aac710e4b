package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/bulk"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

type service struct {
	workers    int
	pagination pagination.Config
	logger     *slog.Logger
}

// New creates the user service. workers bounds BulkDelete concurrency.
func New(workers int, pagination pagination.Config, logger *slog.Logger) System {
	return &service{
		workers:    workers,
		pagination: pagination,
		logger:     logger.With("system", "users"),
	}
}

func userPath(id uuid.UUID) string {
	return "/users/" + id.String()
}

func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[User], error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)
	params := page.Values()
	for k, v := range filters.values() {
		params[k] = v
	}

	var result pagination.PageResult[User]
	if err := api.Get(ctx, "/users", params, &result); err != nil {
		return nil, mapError(err)
	}
	return &result, nil
}

func (f Filters) values() url.Values {
	params := url.Values{}
	if f.Role != "" {
		params.Set("role", f.Role)
	}
	if f.Active != nil {
		params.Set("active", strconv.FormatBool(*f.Active))
	}
	return params
}

func (s *service) All(ctx context.Context, filters Filters) ([]User, error) {
	return pagination.Collect(ctx, s.pagination.MaxPageSize, func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[User], error) {
		return s.List(ctx, page, filters)
	})
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var u User
	if err := api.Get(ctx, userPath(id), nil, &u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd Command) (*User, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var u User
	if err := api.Patch(ctx, userPath(id), cmd, &u); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("user updated", "id", id, "active", u.Active)
	return &u, nil
}

func (s *service) AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*User, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}

	var u User
	body := map[string][]uuid.UUID{"roleIds": roleIDs}
	if err := api.Put(ctx, userPath(id)+"/roles", body, &u); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("user roles assigned", "id", id, "roles", len(roleIDs))
	return &u, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}
	if err := api.Delete(ctx, userPath(id), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("user deleted", "id", id)
	return nil
}

func (s *service) BulkDelete(ctx context.Context, ids []uuid.UUID) bulk.Report[uuid.UUID] {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	report := bulk.Run(ctx, s.workers, unique, s.Delete)
	s.logger.Info("bulk delete finished", "deleted", len(report.Succeeded), "failed", len(report.Failed))
	return report
}
