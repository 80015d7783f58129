// Package web holds the HTML templates and browser script served by the app.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/cppla/network/utils"
)

//go:embed templates/*.html static
var files embed.FS

var funcs = template.FuncMap{
	"prev": func(n int) int { return n - 1 },
	"next": func(n int) int { return n + 1 },
	"date": func(t time.Time) string { return t.Format("Jan 2 2006, 3:04 PM") },
	// markup lets the UGC subset of HTML through and escapes the rest.
	"markup": func(s string) template.HTML { return template.HTML(utils.Sanitize(s)) },
}

// Templates parses every embedded page and partial.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// Static serves the embedded browser assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
