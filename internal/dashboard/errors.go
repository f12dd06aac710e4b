package dashboard

import (
	"net/http"

	"github.com/JaimeStill/lingua-web/pkg/apiclient"
)

func MapHTTPStatus(err error) int {
	if s := apiclient.StatusOf(err); s != 0 {
		return s
	}
	return http.StatusInternalServerError
}
