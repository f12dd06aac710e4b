// Package pagestest provides a renderer, a fake backend session and request
// helpers for page handler tests.
package pagestest

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/pages"
	"github.com/JaimeStill/lingua-web/pkg/apiclient"
	"github.com/JaimeStill/lingua-web/pkg/logging"
	"github.com/JaimeStill/lingua-web/pkg/web"
)

const layout = "test.html"

// view prints what a handler passed to the template in a form tests can grep.
const view = `{{ define "content" }}view={{ .Title }}
{{ range $k, $v := .Errors }}error:{{ $k }}={{ $v }}
{{ end }}{{ with .Flash }}flash:{{ .Level }}={{ .Message }}
{{ end }}{{ range $k, $v := .Form }}form:{{ $k }}={{ $v }}
{{ end }}data:{{ printf "%+v" .Data }}
json:{{ json .Data }}{{ end }}`

// Renderer builds a renderer whose views echo their data.
func Renderer(t *testing.T, views ...string) *pages.Renderer {
	t.Helper()

	fsys := fstest.MapFS{
		"layouts/" + layout: {Data: []byte(`{{ template "content" . }}`)},
	}
	names := append(views, pages.ViewNotFound, pages.ViewForbidden, pages.ViewError)
	defs := make([]web.ViewDef, 0, len(names))
	for _, name := range names {
		fsys["views/"+name] = &fstest.MapFile{Data: []byte(view)}
		defs = append(defs, web.ViewDef{Template: name})
	}

	ts, err := web.NewTemplateSet(fsys, fsys, "layouts/*.html", "views", "", defs)
	require.NoError(t, err)
	return pages.New(ts, layout, logging.Discard())
}

// Backend starts backend as a fake REST API and returns a context carrying
// a signed-in caller for it.
func Backend(t *testing.T, backend http.Handler) context.Context {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := apiclient.Config{BaseURL: srv.URL}
	require.NoError(t, cfg.Finalize(nil))
	client, err := apiclient.New(&cfg, logging.Discard())
	require.NoError(t, err)

	session := client.WithStore(apiclient.NewMemoryStore("test", apiclient.Tokens{AccessToken: "token"}))
	return apiclient.NewContext(context.Background(), session)
}

// JSON writes body as a JSON response.
func JSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// Body returns the rendered response with HTML escapes undone.
func Body(w *httptest.ResponseRecorder) string {
	return html.UnescapeString(w.Body.String())
}

// Get builds a GET request bound to ctx.
func Get(ctx context.Context, target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
}

// Post builds a form POST bound to ctx.
func Post(ctx context.Context, target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(ctx)
}

// Allow is a guard that admits everyone.
func Allow(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

// Serve registers handler on a fresh mux under pattern and serves r.
func Serve(pattern string, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}
