package middleware

import (
	"context"
	"net/http"
	"strings"
)

// Headers set by the upstream auth collaborator.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// RoleAdmin is the role allowed to moderate, refund and audit.
const RoleAdmin = "admin"

// Identity is the caller as asserted by the auth collaborator.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityContextKey struct{}

// WithIdentity stores the caller identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the caller identity stored in context.
func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	value, _ := ctx.Value(identityContextKey{}).(Identity)
	return value
}

// Identify copies the auth collaborator's identity headers into the request context.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: strings.TrimSpace(r.Header.Get(UserIDHeader)),
			Role:   strings.ToLower(strings.TrimSpace(r.Header.Get(UserRoleHeader))),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
