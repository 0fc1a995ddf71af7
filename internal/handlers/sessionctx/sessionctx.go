package sessionctx

import (
	"context"

	"github.com/nkiryanov/blogz/internal/service/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// Create a new context with the session state
func New(ctx context.Context, st *session.State) context.Context {
	return context.WithValue(ctx, sessionKey, st)
}

// Extract the session state from the context
func FromContext(ctx context.Context) (*session.State, bool) {
	st, ok := ctx.Value(sessionKey).(*session.State)
	return st, ok
}
