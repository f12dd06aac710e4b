package grammar

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrEmptyText   = errors.New("text is empty")
	ErrTextTooLong = errors.New("text is too long")
	ErrRejected    = errors.New("text could not be checked")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrTextTooLong), errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusBadRequest:          ErrRejected,
		http.StatusUnprocessableEntity: ErrRejected,
	})
}
