package middleware

import (
	"net/http"

	"github.com/nkiryanov/blogz/internal/handlers/sessionctx"
)

const LoginPath = "/login"

// Endpoints reachable without session
var PublicEndpoints = map[string]bool{
	"index":      true,
	"list_blogs": true,
	"signup":     true,
	"login":      true,
	"static":     true,
}

// Allow reports whether endpoint may be served.
// Unknown endpoints (empty name) need session as well.
func Allow(endpoint string, authenticated bool) bool {
	return authenticated || PublicEndpoints[endpoint]
}

// Gate redirects anonymous visitors to login page unless endpoint is public.
// Has to run after Session middleware.
func Gate(endpointOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authenticated := false
			if st, ok := sessionctx.FromContext(r.Context()); ok {
				_, authenticated = st.CurrentUsername()
			}

			if !Allow(endpointOf(r), authenticated) {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
