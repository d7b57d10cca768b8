// Package web holds the embedded page templates and the gin renderer for them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/go-demo/forum/internal/pkg/utils"
)

//go:embed templates
var files embed.FS

const (
	layoutName    = "base"
	DefaultAvatar = "/static/images/avatar.svg"
)

// Renderer renders a page inside the base layout. Each page is parsed into
// its own template set because every page defines the same blocks.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page with the layout and partials. extra is
// merged over the default function map.
func NewRenderer(extra template.FuncMap) (*Renderer, error) {
	funcs := Funcs()
	for name, fn := range extra {
		funcs[name] = fn
	}

	pages, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := path.Base(page)
		t, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/base.html",
			"templates/partials/*.html",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = t
	}

	return r, nil
}

// Names lists the loaded page names
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Instance implements gin's render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.templates[name]
	if !ok {
		return missingTemplate{name: name}
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

type missingTemplate struct {
	name string
}

func (m missingTemplate) Render(w http.ResponseWriter) error {
	return fmt.Errorf("template %q not loaded", m.name)
}

func (m missingTemplate) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// Funcs returns the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"timesince": func(t time.Time) string { return Since(t, time.Now()) },
		"errorsFor": func(errs utils.FieldErrors, field string) []string { return errs[field] },
		"avatar": func(url string) string {
			if url == "" {
				return DefaultAvatar
			}
			return url
		},
	}
}

// Since formats the time elapsed between t and now as "3 hours".
func Since(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "0 minutes"
	}

	units := []struct {
		name string
		size time.Duration
	}{
		{"year", 365 * 24 * time.Hour},
		{"month", 30 * 24 * time.Hour},
		{"week", 7 * 24 * time.Hour},
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}

	for _, u := range units {
		if n := int(d / u.size); n > 0 {
			if n == 1 {
				return fmt.Sprintf("1 %s", u.name)
			}
			return fmt.Sprintf("%d %ss", n, u.name)
		}
	}
	return "0 minutes"
}
