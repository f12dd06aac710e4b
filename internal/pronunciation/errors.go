package pronunciation

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/storage"
)

var (
	ErrNoReference      = errors.New("reference text is required")
	ErrReferenceTooLong = errors.New("reference text is too long")
	ErrNoAudio          = errors.New("recording is empty")
	ErrNotAudio         = errors.New("recording is not audio")
	ErrTooLarge         = errors.New("recording is too large")
	ErrRejected         = errors.New("recording could not be assessed")
	ErrNotFound         = errors.New("recording not found")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotAudio):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrNoReference), errors.Is(err, ErrReferenceTooLong),
		errors.Is(err, ErrNoAudio), errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity
	}
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}

func mapError(err error) error {
	return apiclient.MapStatus(err, map[int]error{
		http.StatusBadRequest:            ErrRejected,
		http.StatusRequestEntityTooLarge: ErrTooLarge,
		http.StatusUnsupportedMediaType:  ErrNotAudio,
		http.StatusUnprocessableEntity:   ErrRejected,
	})
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		return ErrNotFound
	case errors.Is(err, storage.ErrTooLarge):
		return ErrTooLarge
	}
	return err
}
