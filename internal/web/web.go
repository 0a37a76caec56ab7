// Package web holds the server-rendered pages for browser checkout.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Templates parses the embedded page templates. Names match the file names.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFiles, "templates/*.tmpl")
}
