// Package auth issues and verifies API tokens and gates routes by role.
package auth

import (
	"context"
	"strings"
)

// RequestContext identifies the caller of one request. Handlers receive it as
// an explicit argument.
type RequestContext struct {
	UserID   int64
	UserName string
	Roles    []string
}

// IsAuthenticated reports whether the caller presented a valid token
func (rc RequestContext) IsAuthenticated() bool {
	return rc.UserID != 0 || rc.UserName != ""
}

// HasAnyRole reports whether the caller holds one of roles, ignoring case
func (rc RequestContext) HasAnyRole(roles ...string) bool {
	for _, have := range rc.Roles {
		for _, want := range roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// Role returns the caller's roles joined for display
func (rc RequestContext) Role() string {
	return strings.Join(rc.Roles, ",")
}

type contextKey struct{}

// WithRequestContext stores rc in ctx
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the caller stored by Authenticate. Anonymous callers
// get the zero RequestContext.
func FromContext(ctx context.Context) RequestContext {
	rc, _ := ctx.Value(contextKey{}).(RequestContext)
	return rc
}
