package routes

import (
	"net/http"
	"strings"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/httpx"
)

// ServeStatic serves the survey frontend. Paths containing ".." are
// rejected outright, whether or not the resource exists.
func ServeStatic(app app.App) http.HandlerFunc {
	files := http.FileServer(http.Dir(app.StaticDir))

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "..") {
			httpx.LogBadRequest(w, r, "static.path_traversal",
				"Invalid path", "Invalid path")
			return
		}

		files.ServeHTTP(w, r)
	}
}
