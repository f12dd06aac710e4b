package permissions

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) System {
	return &service{logger: logger.With("system", "permissions")}
}

func (s *service) List(ctx context.Context) ([]Permission, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var list []Permission
	if err := api.Get(ctx, "/permissions", nil, &list); err != nil {
		return nil, mapError(err)
	}
	slices.SortFunc(list, func(a, b Permission) int { return cmp.Compare(a.Key, b.Key) })
	return list, nil
}

func (s *service) Create(ctx context.Context, cmd Command) (*Permission, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var p Permission
	if err := api.Post(ctx, "/permissions", cmd, &p); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("permission created", "id", p.ID, "key", p.Key)
	return &p, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Permission, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var p Permission
	if err := api.Put(ctx, "/permissions/"+id.String(), cmd, &p); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("permission updated", "id", p.ID, "key", p.Key)
	return &p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}
	if err := api.Delete(ctx, "/permissions/"+id.String(), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("permission deleted", "id", id)
	return nil
}
