// Package views renders HTML pages from html/template files. Each page is
// parsed together with layout.html and executed through its "layout"
// template.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"
)

//go:embed templates
var embedded embed.FS

//go:embed static
var static embed.FS

const layoutFile = "layout.html"

// Context is the data handed to a template
type Context map[string]interface{}

// Renderer writes the page name to w with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, ctx Context) error
}

// URLFunc reverses a route name and variable pairs into a path.
type URLFunc func(name string, pairs ...interface{}) (string, error)

// TemplateRenderer renders pages parsed from a file system.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// Templates returns the embedded page set, or dir when it is non-empty.
func Templates(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "templates")
}

// Static returns the embedded stylesheet directory
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewTemplateRenderer parses every page in fsys. urls backs the "url"
// template function.
func NewTemplateRenderer(fsys fs.FS, urls URLFunc) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"url": func(name string, pairs ...interface{}) (string, error) {
			return urls(name, pairs...)
		},
		"date": func(t interface{}) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("January 2, 2006, 3:04 p.m.")
			case *time.Time:
				if v == nil {
					return ""
				}
				return v.Format("January 2, 2006, 3:04 p.m.")
			}
			return ""
		},
		"linebreaks": func(s string) template.HTML {
			paras := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n")
			var b strings.Builder
			for _, p := range paras {
				p = strings.TrimSpace(p)
				if p == "" {
					continue
				}
				lines := strings.Split(template.HTMLEscapeString(p), "\n")
				b.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
			}
			return template.HTML(b.String())
		},
	}

	pages := make(map[string]*template.Template)
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || name == layoutFile || path.Ext(name) != ".html" {
			return nil
		}
		tmpl, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(fsys, layoutFile, name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{pages: pages}, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, ctx Context) error {
	tmpl, ok := tr.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", ctx); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page was loaded
func (tr *TemplateRenderer) Has(name string) bool {
	_, ok := tr.pages[name]
	return ok
}
