package quizzes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound  = errors.New("quiz not found")
	ErrNoAnswers = errors.New("answer at least one question")
	ErrInvalid   = errors.New("invalid answers")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoAnswers), errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusNotFound:            ErrNotFound,
		http.StatusBadRequest:          ErrInvalid,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}
