package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/model"
)

// Authenticator verifies bearer access tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// access token and stores the session in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
