package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/lingua-web/internal/scenarios"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

// scenarioPreview is how many scenarios the home page suggests.
const scenarioPreview = 3

type service struct {
	scenarios scenarios.System
	logger    *slog.Logger
}

func New(scenarios scenarios.System, logger *slog.Logger) System {
	return &service{
		scenarios: scenarios,
		logger:    logger.With("system", "dashboard"),
	}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var stats Stats
	if err := api.Get(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return &stats, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ov Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.Stats(gctx)
		ov.Stats = stats
		return err
	})
	g.Go(func() error {
		if err := api.Get(gctx, "/dashboard/courses", nil, &ov.Courses); err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.scenarios.List(gctx)
		if err != nil {
			return fmt.Errorf("load scenarios: %w", err)
		}
		ov.Scenarios = list[:min(len(list), scenarioPreview)]
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("overview failed", "error", err)
		return nil, err
	}
	return &ov, nil
}
