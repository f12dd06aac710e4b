package scenarios

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound      = errors.New("scenario not found")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrMessageTooBig = errors.New("message is too long")
	ErrBadHistory    = errors.New("conversation history is invalid")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooBig):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadHistory):
		return http.StatusBadRequest
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusNotFound: ErrNotFound,
	})
}
