package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

type service struct {
	maxLength int
	logger    *slog.Logger
}

func New(maxLength int, logger *slog.Logger) System {
	return &service{
		maxLength: maxLength,
		logger:    logger.With("system", "grammar"),
	}
}

func (s *service) MaxLength() int {
	return s.maxLength
}

func (s *service) Check(ctx context.Context, text string) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > s.maxLength {
		return nil, fmt.Errorf("%w: %d characters, limit is %d", ErrTextTooLong, n, s.maxLength)
	}

	api, err := apiclient.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var res Response
	if err := api.Post(ctx, "/grammar/check", map[string]string{"text": text}, &res); err != nil {
		return nil, mapError(err)
	}
	if res.Text == "" {
		res.Text = text
	}

	s.logger.Debug("grammar checked", "length", len(text), "errors", len(res.Errors))
	return &res, nil
}
