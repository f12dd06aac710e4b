package feedback_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/feedback"
	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

var (
	pageCfg  = pagination.Config{DefaultPageSize: 10, MaxPageSize: 100}
	openID   = uuid.MustParse("fb000000-0000-4000-8000-000000000001")
	closedID = uuid.MustParse("fb000000-0000-4000-8000-000000000002")
)

func TestCommand_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cmd    feedback.Command
		fields []string
	}{
		{"valid", feedback.Command{Rating: 4, Message: "Great lessons"}, nil},
		{"rating too low", feedback.Command{Rating: 0, Message: "x"}, []string{"rating"}},
		{"rating too high", feedback.Command{Rating: 6, Message: "x"}, []string{"rating"}},
		{"blank message", feedback.Command{Rating: 3, Message: "   "}, []string{"message"}},
		{"long message", feedback.Command{Rating: 3, Message: strings.Repeat("é", 2001)}, []string{"message"}},
		{"unknown category", feedback.Command{Category: "rant", Rating: 3, Message: "x"}, []string{"category"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.cmd.Validate()
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.NotEmpty(t, errs.Get(f))
			}
		})
	}
}

type backend struct {
	query     url.Values
	submitted map[string]any
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /feedback", func(w http.ResponseWriter, r *http.Request) {
		b.query = r.URL.Query()
		pagestest.JSON(w, 200, fmt.Sprintf(`{"data":[{"id":%q,"user_name":"Ana","category":"bug","rating":2,"message":"Audio skips","status":"open","created_at":"2024-06-01T08:30:00Z"}],"total":1,"page":1,"page_size":10,"total_pages":1}`, openID))
	})
	mux.HandleFunc("POST /feedback", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&b.submitted)
		pagestest.JSON(w, 201, fmt.Sprintf(`{"id":%q,"status":"open"}`, uuid.New()))
	})
	mux.HandleFunc("PATCH /feedback/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == closedID.String() {
			pagestest.JSON(w, 409, `{"detail":"already resolved"}`)
			return
		}
		pagestest.JSON(w, 200, fmt.Sprintf(`{"id":%q,"status":"resolved"}`, openID))
	})
	return mux
}

func TestService_ListByStatus(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	res, err := feedback.New(pageCfg, logging.Discard()).List(ctx, pagination.PageRequest{}, feedback.Filters{Status: feedback.StatusOpen})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.True(t, res.Data[0].Open())
	assert.Equal(t, "Ana", res.Data[0].UserName)
	assert.Equal(t, "open", b.query.Get("status"))
}

func TestService_Resolve(t *testing.T) {
	ctx := pagestest.Backend(t, (&backend{}).handler())
	sys := feedback.New(pageCfg, logging.Discard())

	f, err := sys.Resolve(ctx, openID)
	require.NoError(t, err)
	assert.False(t, f.Open())

	_, err = sys.Resolve(ctx, closedID)
	assert.ErrorIs(t, err, feedback.ErrAlreadyResolved)
}

func newHandler(t *testing.T) *feedback.Handler {
	r := pagestest.Renderer(t, "admin_feedback.html", "dashboard_feedback.html")
	return feedback.NewHandler(feedback.New(pageCfg, logging.Discard()), r, r, pageCfg, "/admin", logging.Discard())
}

func TestHandler_SubmitValidatesRating(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())
	form := url.Values{"rating": {"9"}, "message": {"Love it"}}

	w := pagestest.Serve("POST /feedback", newHandler(t).Submit, pagestest.Post(ctx, "/feedback", form))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error:rating=Rating must be between 1 and 5.")
	assert.Nil(t, b.submitted)
}

func TestHandler_Submit(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())
	form := url.Values{"rating": {"5"}, "message": {"Love it"}, "category": {"content"}}

	w := pagestest.Serve("POST /feedback", newHandler(t).Submit, pagestest.Post(ctx, "/feedback", form))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, float64(5), b.submitted["rating"])
	assert.Equal(t, "content", b.submitted["category"])
}

func TestHandler_ResolveKeepsFilter(t *testing.T) {
	ctx := pagestest.Backend(t, (&backend{}).handler())
	target := "/feedback/" + closedID.String() + "/resolve"

	w := pagestest.Serve("POST /feedback/{id}/resolve", newHandler(t).Resolve,
		pagestest.Post(ctx, target, url.Values{"status": {"open"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/feedback?status=open", w.Header().Get("Location"))
}

func TestHandler_ListIgnoresUnknownStatus(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	w := pagestest.Serve("GET /feedback", newHandler(t).List, pagestest.Get(ctx, "/feedback?status=bogus"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, b.query.Get("status"))
	assert.Contains(t, w.Body.String(), "Audio skips")
}
