package courses_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/courses"
	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

var pageCfg = pagination.Config{DefaultPageSize: 10, MaxPageSize: 100}

var courseID = uuid.MustParse("0b5e6f7a-1c2d-4e3f-8a9b-0c1d2e3f4a5b")

// fakeBackend records created courses and reports "spanish-a1" as taken.
type fakeBackend struct {
	mu      sync.Mutex
	created []map[string]any
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /courses", func(w http.ResponseWriter, r *http.Request) {
		if s := r.URL.Query().Get("slug"); s != "" {
			if s == "spanish-a1" {
				pagestest.JSON(w, 200, `{"data":[{"slug":"spanish-a1"}],"total":1,"page":1,"pageSize":1,"totalPages":1}`)
				return
			}
			pagestest.JSON(w, 200, `{"data":[],"total":0,"page":1,"pageSize":1,"totalPages":1}`)
			return
		}
		pagestest.JSON(w, 200, `{"data":[{"id":"`+courseID.String()+`","title":"Spanish A1","slug":"spanish-a1","language":"es","level":"A1","lessonCount":12,"updatedAt":"2024-05-01T10:00:00Z"}],"total":1,"page":1,"pageSize":10,"totalPages":1}`)
	})
	mux.HandleFunc("POST /courses", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.created = append(f.created, body)
		f.mu.Unlock()
		pagestest.JSON(w, 201, `{"id":"`+courseID.String()+`","title":"Spanish A1","slug":"`+body["slug"].(string)+`"}`)
	})
	mux.HandleFunc("GET /courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 404, `{"detail":"Course not found"}`)
	})
	mux.HandleFunc("PUT /courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 409, `{"detail":"slug exists"}`)
	})
	mux.HandleFunc("DELETE /courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestCommand_Validate(t *testing.T) {
	cmd := courses.Command{Title: "  Café Français 101 ", Language: "fr", Level: "B1"}
	assert.False(t, cmd.Validate().Any())
	assert.Equal(t, "cafe-francais-101", cmd.Slug)

	bad := courses.Command{Slug: "Not A Slug", Level: "Z9"}
	errs := bad.Validate()
	assert.NotEmpty(t, errs.Get("title"))
	assert.NotEmpty(t, errs.Get("slug"))
	assert.NotEmpty(t, errs.Get("language"))
	assert.NotEmpty(t, errs.Get("level"))
}

func TestCommand_ValidateSymbolOnlyTitle(t *testing.T) {
	cmd := courses.Command{Title: "!!!", Language: "es", Level: "A1"}
	errs := cmd.Validate()
	assert.Equal(t, "Title must contain a letter or digit.", errs.Get("title"))
	assert.Empty(t, cmd.Slug)

	explicit := courses.Command{Title: "!!!", Slug: "exclamations", Language: "es", Level: "A1"}
	assert.False(t, explicit.Validate().Any())
}

func TestService_CreateRejectsSymbolOnlyTitle(t *testing.T) {
	backend := &fakeBackend{}
	ctx := pagestest.Backend(t, backend.handler())
	sys := courses.New(logging.Discard(), pageCfg)

	_, err := sys.Create(ctx, courses.Command{Title: "¡¿?!", Language: "es", Level: "A1"})
	assert.ErrorIs(t, err, courses.ErrInvalid)
	assert.Empty(t, backend.created)
}

func TestService_CreateGeneratesUniqueSlug(t *testing.T) {
	backend := &fakeBackend{}
	ctx := pagestest.Backend(t, backend.handler())
	sys := courses.New(logging.Discard(), pageCfg)

	c, err := sys.Create(ctx, courses.Command{Title: "Spanish A1", Language: "es", Level: "A1"})
	require.NoError(t, err)

	assert.Equal(t, "spanish-a1-2", c.Slug)
	require.Len(t, backend.created, 1)
	assert.Equal(t, "es", backend.created[0]["language"])
}

func TestService_ListAndErrors(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())
	sys := courses.New(logging.Discard(), pageCfg)

	res, err := sys.List(ctx, pagination.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, 12, res.Data[0].LessonCount)
	assert.Equal(t, courseID, res.Data[0].ID)

	_, err = sys.Find(ctx, courseID)
	assert.ErrorIs(t, err, courses.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, courses.MapHTTPStatus(err))

	_, err = sys.Update(ctx, courseID, courses.Command{Title: "x", Language: "es", Level: "A1"})
	assert.ErrorIs(t, err, courses.ErrDuplicate)

	_, err = sys.Find(t.Context(), courseID)
	assert.Error(t, err, "no caller in context")
}

func newHandler(t *testing.T) *courses.Handler {
	return courses.NewHandler(
		courses.New(logging.Discard(), pageCfg),
		pagestest.Renderer(t, "admin_courses.html", "admin_course_form.html"),
		pageCfg, "/admin", logging.Discard(),
	)
}

func TestHandler_List(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())
	w := pagestest.Serve("GET /courses", newHandler(t).List, pagestest.Get(ctx, "/courses?sort=-title"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "view=Courses")
	assert.Contains(t, w.Body.String(), "Spanish A1")
}

func TestHandler_CreateValidation(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())
	form := url.Values{"title": {""}, "language": {"es"}, "level": {"A1"}}

	w := pagestest.Serve("POST /courses", newHandler(t).Create, pagestest.Post(ctx, "/courses", form))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error:title=Title is required.")
	assert.Contains(t, w.Body.String(), "form:language=es")
}

func TestHandler_CreateRedirects(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())
	form := url.Values{"title": {"German B2"}, "language": {"de"}, "level": {"b2"}}

	w := pagestest.Serve("POST /courses", newHandler(t).Create, pagestest.Post(ctx, "/courses", form))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/courses/"+courseID.String()+"/edit", w.Header().Get("Location"))
}

func TestHandler_UpdateDuplicateSlug(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())
	form := url.Values{"title": {"German B2"}, "language": {"de"}, "level": {"B2"}}

	w := pagestest.Serve("POST /courses/{id}", newHandler(t).Update, pagestest.Post(ctx, "/courses/"+courseID.String(), form))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "error:slug=")
}

func TestHandler_EditNotFound(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())

	w := pagestest.Serve("GET /courses/{id}/edit", newHandler(t).Edit, pagestest.Get(ctx, "/courses/"+courseID.String()+"/edit"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = pagestest.Serve("GET /courses/{id}/edit", newHandler(t).Edit, pagestest.Get(ctx, "/courses/nope/edit"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Export(t *testing.T) {
	ctx := pagestest.Backend(t, (&fakeBackend{}).handler())

	w := pagestest.Serve("GET /courses/export.csv", newHandler(t).Export, pagestest.Get(ctx, "/courses/export.csv"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Slug,Language,Level,Lessons,Published,Updated", lines[0])
	assert.Equal(t, "Spanish A1,spanish-a1,es,A1,12,no,2024-05-01", lines[1])
}

func TestHandler_SessionExpiredRedirectsToLogin(t *testing.T) {
	w := pagestest.Serve("GET /courses", newHandler(t).List, pagestest.Get(t.Context(), "/courses"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fcourses", w.Header().Get("Location"))
}
