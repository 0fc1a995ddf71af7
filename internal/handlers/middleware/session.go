package middleware

import (
	"net/http"

	"github.com/nkiryanov/blogz/internal/handlers/sessionctx"
	"github.com/nkiryanov/blogz/internal/service/session"
)

type sessionStore interface {
	Load(r *http.Request) *session.State
	Save(w http.ResponseWriter, st *session.State) error
}

type errorLogger interface {
	Error(msg string, args ...any)
}

// sessionWriter saves the session cookie right before headers are sent
type sessionWriter struct {
	http.ResponseWriter
	store     sessionStore
	state     *session.State
	logger    errorLogger
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	if err := w.store.Save(w.ResponseWriter, w.state); err != nil {
		w.logger.Error("session not saved", "error", err)
	}
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	w.commit()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(p []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(p)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Session loads session state into request context and saves it with the response
func Session(store sessionStore, l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := store.Load(r)
			sw := &sessionWriter{ResponseWriter: w, store: store, state: st, logger: l}

			next.ServeHTTP(sw, r.WithContext(sessionctx.New(r.Context(), st)))

			// Handler wrote nothing
			sw.commit()
		})
	}
}
