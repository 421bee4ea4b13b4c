package middleware

import (
	"context"
)

type contextKey string

const authContextKey contextKey = "auth"

// AuthInfo is the token payload of the authenticated caller.
type AuthInfo struct {
	Email    string
	UserID   string
	UserType string
}

// WithAuth injects the caller's token payload into the context.
func WithAuth(ctx context.Context, info AuthInfo) context.Context {
	return context.WithValue(ctx, authContextKey, info)
}

// AuthFromContext returns the caller's token payload, or nil.
func AuthFromContext(ctx context.Context) *AuthInfo {
	v := ctx.Value(authContextKey)
	if v == nil {
		return nil
	}
	info, ok := v.(AuthInfo)
	if !ok {
		return nil
	}
	return &info
}
