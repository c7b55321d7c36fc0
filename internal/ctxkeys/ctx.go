package ctxkeys

import (
	"context"

	"github.com/iackson05/streakd/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SessionKey contextKey = "session"
)

// Session returns the verified access token of the request, or nil.
func Session(ctx context.Context) *model.Session {
	session, _ := ctx.Value(SessionKey).(*model.Session)
	return session
}

func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// UserID returns the authenticated caller, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	if s := Session(ctx); s != nil {
		return s.UserID
	}
	return ""
}
