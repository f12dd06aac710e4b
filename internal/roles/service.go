package roles

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/bulk"
)

type service struct {
	workers int
	logger  *slog.Logger
}

// New creates the role service. workers bounds concurrent permission changes.
func New(workers int, logger *slog.Logger) System {
	return &service{
		workers: workers,
		logger:  logger.With("system", "roles"),
	}
}

func rolePath(id uuid.UUID) string {
	return "/roles/" + id.String()
}

func (s *service) List(ctx context.Context) ([]Role, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var list []Role
	if err := api.Get(ctx, "/roles", nil, &list); err != nil {
		return nil, mapError(err)
	}
	slices.SortFunc(list, func(a, b Role) int { return cmp.Compare(a.Name, b.Name) })
	return list, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Role, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var r Role
	if err := api.Get(ctx, rolePath(id), nil, &r); err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *service) Create(ctx context.Context, cmd Command) (*Role, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var r Role
	if err := api.Post(ctx, "/roles", cmd, &r); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("role created", "id", r.ID, "name", r.Name)
	return &r, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Role, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	current, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Name == Protected && cmd.Name != Protected {
		return nil, ErrProtected
	}

	var r Role
	if err := api.Put(ctx, rolePath(id), cmd, &r); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("role updated", "id", r.ID, "name", r.Name)
	return &r, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}

	current, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if current.Name == Protected {
		return ErrProtected
	}

	if err := api.Delete(ctx, rolePath(id), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("role deleted", "id", id)
	return nil
}

type permissionOp struct {
	id    uuid.UUID
	grant bool
}

func (s *service) SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) (Change, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return Change{}, err
	}

	role, err := s.Find(ctx, id)
	if err != nil {
		return Change{}, err
	}

	diff := Diff(role.PermissionIDs(), permissionIDs)

	ops := make([]permissionOp, 0, len(diff.Granted)+len(diff.Revoked))
	for _, pid := range diff.Granted {
		ops = append(ops, permissionOp{id: pid, grant: true})
	}
	for _, pid := range diff.Revoked {
		ops = append(ops, permissionOp{id: pid})
	}

	report := bulk.Run(ctx, s.workers, ops, func(ctx context.Context, op permissionOp) error {
		path := rolePath(id) + "/permissions/" + op.id.String()
		if op.grant {
			return api.Post(ctx, path, nil, nil)
		}
		return api.Delete(ctx, path, nil)
	})

	var applied Change
	for _, op := range report.Succeeded {
		if op.grant {
			applied.Granted = append(applied.Granted, op.id)
		} else {
			applied.Revoked = append(applied.Revoked, op.id)
		}
	}

	s.logger.Info("role permissions changed",
		"id", id,
		"granted", len(applied.Granted),
		"revoked", len(applied.Revoked),
		"failed", len(report.Failed),
	)

	if !report.OK() {
		errs := []error{ErrPartial}
		for op, err := range report.Failed {
			errs = append(errs, fmt.Errorf("permission %s: %w", op.id, err))
		}
		return applied, errors.Join(errs...)
	}
	return applied, nil
}
