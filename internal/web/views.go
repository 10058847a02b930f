package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Engine renders the embedded page templates. It implements fiber.Views, so
// handlers stay decoupled from how pages are produced.
type Engine struct {
	tmpl *template.Template
}

// NewEngine creates an unloaded template engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Load parses all embedded templates. Fiber calls this once at startup.
func (e *Engine) Load() error {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"printf1": func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%.1f", *v)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	e.tmpl = tmpl
	return nil
}

// Render writes the named page with the given data.
func (e *Engine) Render(w io.Writer, name string, data any, layouts ...string) error {
	if e.tmpl == nil {
		if err := e.Load(); err != nil {
			return err
		}
	}
	return e.tmpl.ExecuteTemplate(w, name+".html", data)
}
