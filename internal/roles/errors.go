package roles

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrNotFound  = errors.New("role not found")
	ErrDuplicate = errors.New("role name already exists")
	ErrInvalid   = errors.New("invalid role")
	ErrProtected = errors.New("the admin role cannot be changed")
	ErrPartial   = errors.New("some permission changes failed")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrProtected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrPartial):
		return http.StatusBadGateway
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
