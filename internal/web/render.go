package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// renderer adapts html/template to echo.Renderer.
type renderer struct {
	templates *template.Template
}

var funcs = template.FuncMap{
	"percent": func(score float64) string { return fmt.Sprintf("%.0f%%", score*100) },
	"band": func(score float64) string {
		switch {
		case score >= 0.7:
			return "high"
		case score >= 0.5:
			return "medium"
		}
		return "low"
	},
	"inc": func(i int) int { return i + 1 },
}

func newRenderer() (*renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &renderer{templates: t}, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// names lists the loaded page templates.
func (r *renderer) names() []string {
	var out []string
	for _, t := range r.templates.Templates() {
		if t.Name() != "" {
			out = append(out, t.Name())
		}
	}
	sort.Strings(out)
	return out
}

func staticFiles() []string {
	var out []string
	_ = fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	return out
}
