package lessons

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/query"
	"github.com/JaimeStill/lingua-web/pkg/slug"
)

var byPosition = []query.SortField{{Field: "position"}}

type service struct {
	logger     *slog.Logger
	pagination pagination.Config
}

func New(logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		logger:     logger.With("system", "lessons"),
		pagination: pagination,
	}
}

func coursePath(courseID uuid.UUID) string {
	return "/courses/" + courseID.String() + "/lessons"
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Lesson], error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	page.Normalize(s.pagination)
	if len(page.Sort) == 0 {
		page.Sort = byPosition
	}

	var result pagination.PageResult[Lesson]
	if err := api.Get(ctx, coursePath(courseID), page.Values(), &result); err != nil {
		return nil, mapError(err)
	}
	return &result, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var l Lesson
	if err := api.Get(ctx, "/lessons/"+id.String(), nil, &l); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (s *service) Create(ctx context.Context, courseID uuid.UUID, cmd Command) (*Lesson, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	auto := cmd.Slug == ""
	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var existing pagination.PageResult[Lesson]
	if auto || cmd.Position == 0 {
		params := pagination.PageRequest{Page: 1, PageSize: 1}.Values()
		if err := api.Get(ctx, coursePath(courseID), params, &existing); err != nil {
			return nil, mapError(err)
		}
	}
	if cmd.Position == 0 {
		cmd.Position = existing.Total + 1
	}
	if auto && existing.Total > 0 {
		cmd.Slug = slug.Unique(cmd.Slug, func(candidate string) bool {
			return s.slugTaken(ctx, api, courseID, candidate)
		})
	}

	var l Lesson
	if err := api.Post(ctx, coursePath(courseID), cmd, &l); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("lesson created", "id", l.ID, "course_id", courseID, "position", l.Position)
	return &l, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Lesson, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	if errs := cmd.Validate(); errs.Any() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, errs.First())
	}

	var l Lesson
	if err := api.Put(ctx, "/lessons/"+id.String(), cmd, &l); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("lesson updated", "id", l.ID)
	return &l, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}

	if err := api.Delete(ctx, "/lessons/"+id.String(), nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("lesson deleted", "id", id)
	return nil
}

func (s *service) Move(ctx context.Context, id uuid.UUID, delta int) error {
	if delta != -1 && delta != 1 {
		return fmt.Errorf("%w: move by %d", ErrInvalid, delta)
	}

	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return err
	}

	lesson, err := s.Find(ctx, id)
	if err != nil {
		return err
	}

	siblings, err := pagination.Collect(ctx, s.pagination.MaxPageSize, func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Lesson], error) {
		return s.ListByCourse(ctx, lesson.CourseID, page)
	})
	if err != nil {
		return err
	}

	slices.SortStableFunc(siblings, func(a, b Lesson) int { return a.Position - b.Position })
	i := slices.IndexFunc(siblings, func(l Lesson) bool { return l.ID == id })
	j := i + delta
	if i < 0 || j < 0 || j >= len(siblings) {
		return ErrNoMove
	}

	a, b := siblings[i], siblings[j]
	if a.Position == b.Position {
		b.Position = a.Position + delta
	}
	if err := api.Patch(ctx, "/lessons/"+a.ID.String(), map[string]int{"position": b.Position}, nil); err != nil {
		return mapError(err)
	}
	if err := api.Patch(ctx, "/lessons/"+b.ID.String(), map[string]int{"position": a.Position}, nil); err != nil {
		return mapError(err)
	}

	s.logger.Info("lesson moved", "id", id, "from", a.Position, "to", b.Position)
	return nil
}

func (s *service) slugTaken(ctx context.Context, api apiclient.Caller, courseID uuid.UUID, candidate string) bool {
	var result pagination.PageResult[Lesson]
	params := url.Values{"slug": {candidate}, "page_size": {"1"}}
	if err := api.Get(ctx, coursePath(courseID), params, &result); err != nil {
		return false
	}
	return slices.ContainsFunc(result.Data, func(l Lesson) bool { return l.Slug == candidate })
}
