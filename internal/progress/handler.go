package progress

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/csvexport"
	"github.com/JaimeStill/lingua-web/pkg/datatable"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/routes"
)

const viewList = "admin_progress.html"

type Handler struct {
	sys        System
	pages      *pages.Renderer
	pagination pagination.Config
	mount      string
	logger     *slog.Logger
}

func NewHandler(sys System, pages *pages.Renderer, pagination pagination.Config, mount string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		pages:      pages,
		pagination: pagination,
		mount:      mount,
		logger:     logger,
	}
}

func (h *Handler) Routes(guard routes.Guard) routes.Group {
	return routes.Group{
		Prefix:     "/progress",
		Middleware: []func(http.Handler) http.Handler{guard("progress:read")},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/export.csv", Handler: h.Export},
		},
	}
}

type listData struct {
	Table   datatable.View
	Summary Summary
}

// List shows one page of learners and the summary over all of them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	table := &datatable.Table[UserProgress]{
		Columns: Columns,
		RowKey:  func(p UserProgress) string { return p.UserID.String() },
		Config:  h.pagination,
		PageFunc: func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[UserProgress], error) {
			res, err := h.sys.List(ctx, req)
			if err != nil {
				return pagination.PageResult[UserProgress]{}, err
			}
			return *res, nil
		},
	}

	var (
		page pagination.PageResult[UserProgress]
		all  []UserProgress
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		page, err = table.Load(ctx, req)
		return err
	})
	g.Go(func() (err error) {
		all, err = h.sys.All(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	h.pages.Page(w, r, viewList, "Learner progress", listData{
		Table:   table.View(page, req, h.pages.Path(h.mount+"/progress")),
		Summary: Summarize(all),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.All(r.Context())
	if err != nil {
		h.pages.Fail(w, r, err, MapHTTPStatus(err))
		return
	}

	name := csvexport.Filename("progress", time.Now().Format("2006-01-02"))
	if err := csvexport.Respond(w, name, Columns, all); err != nil {
		h.logger.Error("progress export failed", "error", err)
	}
}
