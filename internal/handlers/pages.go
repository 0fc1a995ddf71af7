package handlers

import (
	"net/http"

	"github.com/nkiryanov/blogz/internal/handlers/render"
	"github.com/nkiryanov/blogz/internal/handlers/sessionctx"
	"github.com/nkiryanov/blogz/internal/logger"
	"github.com/nkiryanov/blogz/internal/service/session"
)

type pages struct {
	renderer *render.Renderer
	logger   logger.Logger
}

// Session state of request, always set by session middleware
func stateOf(r *http.Request) *session.State {
	st, ok := sessionctx.FromContext(r.Context())
	if !ok {
		return &session.State{}
	}
	return st
}

// render pops pending flashes into the page
func (p *pages) render(w http.ResponseWriter, r *http.Request, code int, name string, title string, data any) {
	st := stateOf(r)
	username, _ := st.CurrentUsername()

	err := p.renderer.HTML(w, code, name, render.Page{
		Title:    title,
		Username: username,
		Flashes:  st.Flashes(),
		Data:     data,
	})
	if err != nil {
		p.logger.Error("page not rendered", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p *pages) notFound(w http.ResponseWriter, r *http.Request, message string) {
	p.render(w, r, http.StatusNotFound, render.PageNotFound, "Not found", struct{ Message string }{message})
}

func (p *pages) serverError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("request failed", "uri", r.RequestURI, "error", err)
	p.render(w, r, http.StatusInternalServerError, render.PageError, "Error", struct{}{})
}
