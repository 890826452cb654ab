// Package middleware provides HTTP middlewares for session handling,
// authorization, and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/avolkov/contactbook/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession attaches the per-request session Context to the request
// context so downstream handlers can read and transition the session state.
func WithSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := manager.Load(w, r)
			ctx := context.WithValue(r.Context(), sessionKey, sc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the session Context attached by WithSession.
// Returns nil if the middleware did not run.
func SessionFromContext(ctx context.Context) *session.Context {
	val := ctx.Value(sessionKey)
	if sc, ok := val.(*session.Context); ok {
		return sc
	}
	return nil
}

// RequireAuth gates mutating routes behind an authenticated session.
// Anonymous requests are redirected to the login page rather than rejected
// with an error status.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := SessionFromContext(r.Context())
		if sc == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if _, ok := sc.CurrentUserID(); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
