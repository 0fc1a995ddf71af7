package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/handlers/middleware"
	"github.com/nkiryanov/blogz/internal/handlers/render"
	"github.com/nkiryanov/blogz/internal/logger"
	"github.com/nkiryanov/blogz/internal/models"
	"github.com/nkiryanov/blogz/internal/service/session"
)

// Endpoint names, the access gate allow-list is keyed by them
const (
	EndpointIndex     = "index"
	EndpointLogin     = "login"
	EndpointLogout    = "logout"
	EndpointSignup    = "signup"
	EndpointListBlogs = "list_blogs"
	EndpointNewPost   = "new_post"
	EndpointStatic    = "static"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// endpoints resolves request to the name of the route it would be dispatched to.
// Resolution ignores method, so 405 responses keep the route name.
type endpoints struct {
	mux   *http.ServeMux
	names map[string]string
}

func newEndpoints() *endpoints {
	return &endpoints{mux: http.NewServeMux(), names: make(map[string]string)}
}

func (e *endpoints) add(path string, name string) {
	e.mux.Handle(path, http.NotFoundHandler())
	e.names[path] = name
}

// Empty name for unknown paths
func (e *endpoints) Of(r *http.Request) string {
	_, pattern := e.mux.Handler(r)
	return e.names[pattern]
}

func NewRouter(
	authService authService,
	blogService blogService,
	sessions sessionStore,
	logger logger.Logger,
) (http.Handler, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	p := &pages{renderer: renderer, logger: logger}

	routes := []struct {
		name    string
		path    string
		methods []string
		handler http.Handler
	}{
		{EndpointIndex, "/{$}", []string{"GET"}, handleIndex(blogService, p)},
		{EndpointLogin, "/login", []string{"GET", "POST"}, handleLogin(authService, p)},
		// Not in the public allow-list, so anonymous logout is redirected to login instead of a no-op End
		{EndpointLogout, "/logout", []string{"GET"}, handleLogout()},
		{EndpointSignup, "/signup", []string{"GET", "POST"}, handleSignup(authService, p)},
		{EndpointListBlogs, "/blog", []string{"GET", "POST"}, handleListBlogs(blogService, p)},
		{EndpointNewPost, "/newpost", []string{"GET", "POST"}, handleNewPost(blogService, p)},
		{EndpointStatic, "/static/", []string{"GET"}, render.Static()},
	}

	mux := http.NewServeMux()
	names := newEndpoints()
	for _, route := range routes {
		names.add(route.path, route.name)
		for _, method := range route.methods {
			mux.Handle(method+" "+route.path, route.handler)
		}
	}

	handler := chain(mux,
		middleware.Recovery(logger),
		middleware.LoggerMiddleware(logger, names.Of),
		middleware.Metrics(names.Of),
		middleware.Session(sessions, logger),
		middleware.Gate(names.Of),
	)

	return handler, nil
}

type authService interface {
	// Signup validates form and creates user
	// Has to return apperrors.ErrUserAlreadyExists if username is taken
	// and one of validation errors from apperrors if form is invalid
	Signup(ctx context.Context, username string, password string, verify string) (models.User, error)

	// Login checks user credentials
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrIncorrectPassword on failure
	Login(ctx context.Context, username string, password string) (models.User, error)
}

type blogService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListPosts(ctx context.Context) ([]models.Post, error)

	// Has to return apperrors.ErrPostNotFound if post not exists
	GetPost(ctx context.Context, id uuid.UUID) (models.Post, error)

	// Has to return apperrors.ErrUserNotFound if user not exists
	ListPostsByUser(ctx context.Context, userID uuid.UUID) (models.User, []models.Post, error)

	// Has to return apperrors.ErrPostIncomplete if title or body is empty
	// and apperrors.ErrUserNotFound if owner is gone
	CreatePost(ctx context.Context, ownerUsername string, title string, body string) (models.Post, error)
}

type sessionStore interface {
	Load(r *http.Request) *session.State
	Save(w http.ResponseWriter, st *session.State) error
}
