package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/medicore/pkg/auth"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Auth validates the bearer token and stores the caller's user id and role
// in the request context for downstream handlers and rbac gates.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), claims.UserID, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser stores the authenticated user id and role in ctx.
// Exposed so handlers that authenticate out-of-band (e.g. a stream endpoint
// taking the token as a query parameter) can populate the same keys.
func WithUser(ctx context.Context, userID uint, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	return context.WithValue(ctx, roleKey{}, role)
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}
