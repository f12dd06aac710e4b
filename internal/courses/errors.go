package courses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound  = errors.New("course not found")
	ErrDuplicate = errors.New("course slug already exists")
	ErrInvalid   = errors.New("invalid course")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
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
