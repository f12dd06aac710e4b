package web_test

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/pkg/web"
)

//go:embed testdata/layouts/* testdata/views/* testdata/static/*
var testFS embed.FS

var testViews = []web.ViewDef{
	{Route: "/{$}", Template: "home.html", Title: "Home"},
	{Route: "/greet", Template: "greet.html", Title: "Greet"},
	{Route: "/broken", Template: "broken.html", Title: "Broken"},
}

func newSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(testFS, testFS, "testdata/layouts/*.html", "testdata/views", "/app", testViews)
	require.NoError(t, err)
	return ts
}

func TestNewTemplateSet_MissingView(t *testing.T) {
	_, err := web.NewTemplateSet(testFS, testFS, "testdata/layouts/*.html", "testdata/views", "", []web.ViewDef{
		{Template: "nope.html"},
	})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	ts := newSet(t)
	w := httptest.NewRecorder()

	err := ts.Render(w, http.StatusCreated, "base.html", "home.html", web.ViewData{Title: "Home"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<title>Home</title>")
	assert.Contains(t, w.Body.String(), `href="/app/courses"`)
}

func TestRender_EscapesData(t *testing.T) {
	ts := newSet(t)
	w := httptest.NewRecorder()

	viewer := &web.Viewer{Roles: []string{"admin"}}
	err := ts.Render(w, http.StatusOK, "base.html", "greet.html", web.ViewData{Data: "<b>ana</b>", Viewer: viewer})
	require.NoError(t, err)

	assert.Contains(t, w.Body.String(), "hello &lt;b&gt;ana&lt;/b&gt;")
	assert.Contains(t, w.Body.String(), "<em>admin</em>")
}

func TestRender_FailureWritesNothing(t *testing.T) {
	ts := newSet(t)
	w := httptest.NewRecorder()

	err := ts.Render(w, http.StatusOK, "base.html", "broken.html", web.ViewData{Data: 42})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}

func TestRouter_Fallback(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("known"))
	})
	r.SetFallback(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("fallback"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/known", nil))
	assert.Equal(t, "known", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fallback", w.Body.String())
}

func TestFlash_RoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	web.SetFlash(w, web.FlashSuccess, "Course saved")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	w2 := httptest.NewRecorder()
	f := web.ConsumeFlash(w2, req)
	require.NotNil(t, f)
	assert.Equal(t, web.FlashSuccess, f.Level)
	assert.Equal(t, "Course saved", f.Message)

	cleared := w2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestFlash_Malformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: "%%%"})

	assert.Nil(t, web.ConsumeFlash(httptest.NewRecorder(), req))
}

func TestFormValues_SkipsPasswords(t *testing.T) {
	form := url.Values{"email": {" ana@example.com "}, "password": {"secret"}, "password_confirm": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())

	values := web.FormValues(req)
	assert.Equal(t, map[string]string{"email": "ana@example.com"}, values)
}

func TestFormErrors(t *testing.T) {
	errs := web.FormErrors{}
	assert.False(t, errs.Any())

	errs.Add("email", "required")
	errs.Add("email", "invalid")
	assert.True(t, errs.Any())
	assert.Equal(t, "required", errs.Get("email"))
}

func TestViewer_Can(t *testing.T) {
	var nobody *web.Viewer
	assert.False(t, nobody.Can("courses:write"))

	editor := &web.Viewer{Permissions: []string{"courses:write"}}
	assert.True(t, editor.Can("courses:write"))
	assert.False(t, editor.Can("users:delete"))

	admin := &web.Viewer{Roles: []string{"admin"}}
	assert.True(t, admin.Can("users:delete"))
}

func TestStatic(t *testing.T) {
	h := web.Static(testFS, "testdata/static", "/static/")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "color")
}

func TestFuncs_Fixed(t *testing.T) {
	f := web.Funcs("")["fixed"].(func(int, any) string)

	score := 82.46
	var missing *float64

	assert.Equal(t, "82.5", f(1, score))
	assert.Equal(t, "82", f(0, &score))
	assert.Equal(t, "—", f(1, missing))
	assert.Equal(t, "7.00", f(2, 7))
}
