package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/auth"
	"github.com/fkhayef/fellowship/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ViewerKey is the context key for the authenticated viewer
	ViewerKey ContextKey = "viewer"
)

// Authenticate validates the bearer access token and stores the viewer in the request context
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			viewer, err := auth.ParseToken(parts[1], secret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// WithViewer returns a copy of ctx carrying viewer
func WithViewer(ctx context.Context, viewer access.Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, viewer)
}

// GetViewer extracts the authenticated viewer from the request context
func GetViewer(ctx context.Context) (access.Viewer, bool) {
	viewer, ok := ctx.Value(ViewerKey).(access.Viewer)
	return viewer, ok
}

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	viewer, ok := GetViewer(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return viewer.ID, true
}
