package lessons

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound  = errors.New("lesson not found")
	ErrDuplicate = errors.New("lesson slug already exists in course")
	ErrInvalid   = errors.New("invalid lesson")
	ErrNoMove    = errors.New("lesson is already at the edge")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrNoMove):
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
		http.StatusConflict:            ErrDuplicate,
		http.StatusBadRequest:          ErrInvalid,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}
