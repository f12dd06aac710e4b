package auth

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

var (
	ErrInvalid            = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("reset token is invalid or expired")
	ErrNoIdentity         = errors.New("backend returned no user identity")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoIdentity):
		return http.StatusBadGateway
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapLoginError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusBadRequest:          ErrInvalidCredentials,
		http.StatusUnauthorized:        ErrInvalidCredentials,
		http.StatusForbidden:           ErrInactive,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}

func mapRegisterError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusBadRequest:          ErrInvalid,
		http.StatusConflict:            ErrEmailTaken,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}

func mapResetError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusBadRequest:          ErrInvalidToken,
		http.StatusNotFound:            ErrInvalidToken,
		http.StatusGone:                ErrInvalidToken,
		http.StatusUnprocessableEntity: ErrInvalid,
	})
}
