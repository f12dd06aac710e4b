package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/dashboard"
	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/internal/scenarios"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/logging"
)

const stats = `{"lessons_completed":14,"quizzes_taken":5,"average_score":87.5,"streak_days":3,"minutes_practiced":240,
	"recent_activity":[{"kind":"quiz","title":"Ser vs estar","score":90,"occurred_at":"2024-05-01T10:00:00Z"},
	{"kind":"lesson","title":"Greetings","occurred_at":"2024-04-30T09:00:00Z"}]}`

func backend(failing string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		if failing == "stats" {
			pagestest.JSON(w, 500, `{"message":"stats unavailable"}`)
			return
		}
		pagestest.JSON(w, 200, stats)
	})
	mux.HandleFunc("GET /dashboard/courses", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 200, `[{"id":"7d9f1a40-3b1c-4c57-9a8e-0f6f5b1d2c11","title":"Spanish A1","lessons_completed":3,"lessons_total":12}]`)
	})
	mux.HandleFunc("GET /scenarios", func(w http.ResponseWriter, r *http.Request) {
		if failing == "scenarios" {
			pagestest.JSON(w, 503, `{"detail":"try later"}`)
			return
		}
		pagestest.JSON(w, 200, `[{"title":"Café"},{"title":"Market"},{"title":"Train"},{"title":"Hotel"}]`)
	})
	return mux
}

func newSystem() dashboard.System {
	return dashboard.New(scenarios.New(logging.Discard()), logging.Discard())
}

func TestCourse_Percent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{3, 12, 25},
		{0, 0, 0},
		{12, 12, 100},
		{13, 12, 100},
		{1, 3, 33},
	}
	for _, tt := range tests {
		c := dashboard.Course{LessonsCompleted: tt.done, LessonsTotal: tt.total}
		assert.Equal(t, tt.want, c.Percent())
	}
}

func TestService_Stats(t *testing.T) {
	ctx := pagestest.Backend(t, backend(""))

	s, err := newSystem().Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 14, s.LessonsCompleted)
	assert.Equal(t, 87.5, s.AverageScore)
	assert.Equal(t, 240, s.MinutesPracticed)
	require.Len(t, s.RecentActivity, 2)
	require.NotNil(t, s.RecentActivity[0].Score)
	assert.Equal(t, 90.0, *s.RecentActivity[0].Score)
	assert.Nil(t, s.RecentActivity[1].Score)
	assert.Equal(t, 2024, s.RecentActivity[0].OccurredAt.Year())
}

func TestService_Overview(t *testing.T) {
	ctx := pagestest.Backend(t, backend(""))

	ov, err := newSystem().Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, ov.Stats.StreakDays)
	require.Len(t, ov.Courses, 1)
	assert.Equal(t, 25, ov.Courses[0].Percent())
	require.Len(t, ov.Scenarios, 3)
	assert.Equal(t, "Café", ov.Scenarios[0].Title)
}

func TestService_OverviewFailure(t *testing.T) {
	for _, failing := range []string{"stats", "scenarios"} {
		t.Run(failing, func(t *testing.T) {
			ctx := pagestest.Backend(t, backend(failing))

			_, err := newSystem().Overview(ctx)
			require.Error(t, err)
			assert.GreaterOrEqual(t, apiclient.StatusOf(err), 500)
		})
	}
}

func TestHandler_Home(t *testing.T) {
	h := dashboard.NewHandler(newSystem(), pagestest.Renderer(t, "dashboard_home.html"), logging.Discard())

	t.Run("renders overview", func(t *testing.T) {
		ctx := pagestest.Backend(t, backend(""))
		w := pagestest.Serve("GET /{$}", h.Home, pagestest.Get(ctx, "/"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := pagestest.Body(w)
		assert.Contains(t, body, "view=Dashboard")
		assert.Contains(t, body, `"title":"Ser vs estar"`)
		assert.Contains(t, body, `"lessonsTotal":12`)
	})

	t.Run("backend failure shows error page", func(t *testing.T) {
		ctx := pagestest.Backend(t, backend("stats"))
		w := pagestest.Serve("GET /{$}", h.Home, pagestest.Get(ctx, "/"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "flash:error=stats unavailable")
	})

	t.Run("no session redirects to sign-in", func(t *testing.T) {
		w := pagestest.Serve("GET /{$}", h.Home, pagestest.Get(t.Context(), "/"))
		assert.Equal(t, http.StatusSeeOther, w.Code)
	})
}
