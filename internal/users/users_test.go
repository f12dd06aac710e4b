package users_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/internal/roles"
	"github.com/JaimeStill/lingua-web/internal/users"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

var (
	pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	ana     = uuid.MustParse("3f0a0000-0000-4000-8000-000000000001")
	ben     = uuid.MustParse("3f0a0000-0000-4000-8000-000000000002")
	broken  = uuid.MustParse("3f0a0000-0000-4000-8000-0000000000ff")
	learner = uuid.MustParse("9e000000-0000-4000-8000-000000000001")
)

type backend struct {
	mu      sync.Mutex
	query   url.Values
	deleted []string
	patched map[string]any
	roles   map[string]any
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.query = r.URL.Query()
		b.mu.Unlock()
		pagestest.JSON(w, 200, fmt.Sprintf(`{"data":[
			{"id":%q,"email":"ana@example.com","name":"Ana","active":true,"roles":[{"id":%q,"name":"learner"}],"created_at":"2024-01-02T00:00:00Z"},
			{"id":%q,"email":"=cmd@example.com","name":"Ben","active":false,"roles":[],"created_at":"2024-02-03T00:00:00Z","last_login_at":"2024-03-04T05:06:00Z"}
		],"total":2,"page":1,"page_size":100,"total_pages":1}`, ana, learner, ben))
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 200, fmt.Sprintf(`{"id":%q,"email":"ana@example.com","name":"Ana","active":true,"roles":[{"id":%q,"name":"learner"}]}`, ana, learner))
	})
	mux.HandleFunc("PATCH /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&b.patched)
		pagestest.JSON(w, 200, fmt.Sprintf(`{"id":%q,"name":"Ana","active":true}`, ana))
	})
	mux.HandleFunc("PUT /users/{id}/roles", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&b.roles)
		pagestest.JSON(w, 200, fmt.Sprintf(`{"id":%q}`, ana))
	})
	mux.HandleFunc("DELETE /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == broken.String() {
			pagestest.JSON(w, 500, `{"message":"constraint"}`)
			return
		}
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /roles", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 200, fmt.Sprintf(`[{"id":%q,"name":"learner"},{"id":%q,"name":"admin"}]`, learner, uuid.New()))
	})
	return mux
}

func TestFiltersFromQuery(t *testing.T) {
	q := url.Values{"role": {" admin "}, "active": {"false"}}
	f := users.FiltersFromQuery(q.Get)
	assert.Equal(t, "admin", f.Role)
	require.NotNil(t, f.Active)
	assert.False(t, *f.Active)

	assert.Nil(t, users.FiltersFromQuery(url.Values{"active": {"maybe"}}.Get).Active)

	assert.Equal(t, "false", f.ActiveParam())
	assert.Equal(t, "active=false&role=admin", f.Query())
	assert.Equal(t, "", users.Filters{}.ActiveParam())
}

func TestService_ListForwardsFilters(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())
	active := true

	res, err := users.New(2, pageCfg, logging.Discard()).List(ctx, pagination.PageRequest{Search: "an"}, users.Filters{Role: "learner", Active: &active})
	require.NoError(t, err)

	assert.Len(t, res.Data, 2)
	assert.Equal(t, "learner", res.Data[0].RoleNames())
	assert.Equal(t, "learner", b.query.Get("role"))
	assert.Equal(t, "true", b.query.Get("active"))
	assert.Equal(t, "an", b.query.Get("search"))
}

func TestService_AssignRolesSendsEmptyList(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	_, err := users.New(2, pageCfg, logging.Discard()).AssignRoles(ctx, ana, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, b.roles["role_ids"])
}

func TestService_BulkDeleteReportsPerID(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	report := users.New(2, pageCfg, logging.Discard()).BulkDelete(ctx, []uuid.UUID{ana, broken, ben})

	assert.Equal(t, []uuid.UUID{ana, ben}, report.Succeeded)
	require.Contains(t, report.Failed, broken)
	assert.Equal(t, http.StatusInternalServerError, users.MapHTTPStatus(report.Failed[broken]))
	assert.ElementsMatch(t, []string{ana.String(), ben.String()}, b.deleted)
}

func TestService_BulkDeleteCollapsesDuplicates(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	report := users.New(2, pageCfg, logging.Discard()).BulkDelete(ctx, []uuid.UUID{ben, ana, ben, broken, broken, ana})

	assert.Equal(t, []uuid.UUID{ben, ana}, report.Succeeded)
	assert.Len(t, report.Failed, 1)
	assert.ElementsMatch(t, []string{ben.String(), ana.String()}, b.deleted)
}

func newHandler(t *testing.T) *users.Handler {
	return users.NewHandler(
		users.New(2, pageCfg, logging.Discard()),
		roles.New(2, logging.Discard()),
		pagestest.Renderer(t, "admin_users.html", "admin_user_form.html"),
		pageCfg, "/admin", logging.Discard(),
	)
}

func asViewer(ctx context.Context, id uuid.UUID) context.Context {
	return web.WithViewer(ctx, &web.Viewer{ID: id.String(), Roles: []string{"admin"}})
}

func TestHandler_BulkDeleteSkipsSelf(t *testing.T) {
	b := &backend{}
	ctx := asViewer(pagestest.Backend(t, b.handler()), ana)
	form := url.Values{
		"id":     {ana.String(), ben.String(), ben.String(), "junk", broken.String()},
		"return": {"page=2&search=b"},
	}

	w := pagestest.Serve("POST /users/bulk-delete", newHandler(t).BulkDelete, pagestest.Post(ctx, "/users/bulk-delete", form))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/users?page=2&search=b", w.Header().Get("Location"))
	assert.Equal(t, []string{ben.String()}, b.deleted)
}

func TestHandler_UpdateCannotDeactivateSelf(t *testing.T) {
	b := &backend{}
	ctx := asViewer(pagestest.Backend(t, b.handler()), ana)
	form := url.Values{"name": {"Ana"}}

	w := pagestest.Serve("POST /users/{id}", newHandler(t).Update, pagestest.Post(ctx, "/users/"+ana.String(), form))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error:active=")
	assert.Nil(t, b.patched)
}

func TestHandler_UpdateSavesProfileAndRoles(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())
	form := url.Values{"name": {" Ana María "}, "active": {"on"}, "role": {learner.String()}}

	w := pagestest.Serve("POST /users/{id}", newHandler(t).Update, pagestest.Post(ctx, "/users/"+ana.String(), form))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Ana María", b.patched["name"])
	assert.Equal(t, true, b.patched["active"])
	assert.Equal(t, []any{learner.String()}, b.roles["role_ids"])
}

func TestHandler_ExportEscapesFormulas(t *testing.T) {
	ctx := pagestest.Backend(t, (&backend{}).handler())

	w := pagestest.Serve("GET /users/export.csv", newHandler(t).Export, pagestest.Get(ctx, "/users/export.csv"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users-")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Ana,ana@example.com,learner,yes,2024-01-02,", lines[1])
	assert.Equal(t, "Ben,'=cmd@example.com,,no,2024-02-03,2024-03-04 05:06", lines[2])
}
