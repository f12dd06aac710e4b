package feedback

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound        = errors.New("feedback not found")
	ErrInvalid         = errors.New("invalid feedback")
	ErrAlreadyResolved = errors.New("feedback already resolved")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAlreadyResolved):
		return http.StatusConflict
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusNotFound:            ErrNotFound,
		http.StatusConflict:            ErrAlreadyResolved,
		http.StatusBadRequest:          ErrInvalid,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}
