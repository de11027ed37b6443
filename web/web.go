// Package web embeds the HTML views of both servers.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"

	"storefront/internal/dashboard"
)

//go:embed templates/*.html
var files embed.FS

// Engine returns a view engine over the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	e := html.NewFileSystem(http.FS(sub), ".html")
	e.AddFunc("money", Money)
	e.AddFuncMap(dashboard.Funcs())
	return e
}

func Money(v float64) string { return fmt.Sprintf("$%.2f", v) }
