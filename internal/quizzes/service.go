package quizzes

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) System {
	return &service{logger: logger.With("system", "quizzes")}
}

func (s *service) List(ctx context.Context) ([]Quiz, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var list []Quiz
	if err := api.Get(ctx, "/quizzes", nil, &list); err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var q Quiz
	if err := api.Get(ctx, "/quizzes/"+id.String(), nil, &q); err != nil {
		return nil, mapError(err)
	}
	return &q, nil
}

func (s *service) Submit(ctx context.Context, id uuid.UUID, answers []Answer) (*Result, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var res Result
	body := map[string][]Answer{"answers": answers}
	if err := api.Post(ctx, "/quizzes/"+id.String()+"/submit", body, &res); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("quiz submitted", "quiz_id", id, "score", res.Score, "total", res.Total)
	return &res, nil
}
