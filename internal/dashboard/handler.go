package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/routes"
)

const viewHome = "dashboard_home.html"

type Handler struct {
	sys    System
	pages  *pages.Renderer
	logger *slog.Logger
}

func NewHandler(sys System, pages *pages.Renderer, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, pages: pages, logger: logger}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Home},
		},
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ov, err := h.sys.Overview(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}
	h.pages.Page(w, r, viewHome, "Dashboard", ov)
}
