package web

import (
	"io/fs"
	"net/http"
)

// Static serves files from subdir of fsys under the given URL prefix.
func Static(fsys fs.FS, subdir, prefix string) http.Handler {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}
