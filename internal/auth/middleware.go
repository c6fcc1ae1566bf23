package auth

import (
	"context"
	"net/http"

	"github.com/nic96/minipress/internal/model"
)

type contextKey struct{}

var userKey contextKey

// OptionalIdentity resolves the identity cookie and, when valid, stores the
// user in the request context. Requests without a valid cookie pass through
// anonymously.
func (i *Identity) OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := i.Current(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireIdentity rejects requests that do not carry a valid identity cookie.
func (i *Identity) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := i.Current(r)
		if user == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user stored by the identity
// middleware, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
