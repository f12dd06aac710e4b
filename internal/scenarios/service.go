package scenarios

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) System {
	return &service{logger: logger.With("system", "scenarios")}
}

func (s *service) List(ctx context.Context) ([]Scenario, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var list []Scenario
	if err := api.Get(ctx, "/scenarios", nil, &list); err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Scenario, error) {
	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := api.Get(ctx, "/scenarios/"+id.String(), nil, &sc); err != nil {
		return nil, mapError(err)
	}
	return &sc, nil
}

type sendRequest struct {
	History []Message `json:"history"`
	Message string    `json:"message"`
}

func (s *service) Send(ctx context.Context, id uuid.UUID, history []Message, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	switch {
	case message == "":
		return nil, ErrEmptyMessage
	case utf8.RuneCountInString(message) > MaxMessage:
		return nil, ErrMessageTooBig
	}

	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []Message{}
	}

	var reply Reply
	if err := api.Post(ctx, "/scenarios/"+id.String()+"/messages", sendRequest{History: history, Message: message}, &reply); err != nil {
		return nil, mapError(err)
	}

	s.logger.Debug("conversation turn", "scenario_id", id, "turns", len(history)+1, "corrections", len(reply.Corrections))
	return &reply, nil
}
