// Package render executes embedded HTML templates and serves static assets.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

// Page names
const (
	PageIndex      = "index"
	PageBlog       = "blog"
	PageSinglePost = "single_post"
	PageLogin      = "login"
	PageSignup     = "signup"
	PageAddPost    = "add_post"
	PageNotFound   = "not_found"
	PageError      = "error"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Data shared by every page
type Page struct {
	Title string

	// Logged in username, empty for anonymous visitor
	Username string
	Flashes  []string

	// Page specific data
	Data any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
}

func New() (*Renderer, error) {
	names := []string{
		PageIndex, PageBlog, PageSinglePost, PageLogin,
		PageSignup, PageAddPost, PageNotFound, PageError,
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages}, nil
}

// HTML renders page with status code.
// Nothing is sent if the template fails, so caller may render error page instead.
func (r *Renderer) HTML(w http.ResponseWriter, code int, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	buf := &bytes.Buffer{}
	if err := t.ExecuteTemplate(buf, "layout", page); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// Static serves embedded assets, mount it under /static/
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded dir always exists
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
