// Package http provides the gin handlers and middleware for environment
// credentials: caller authentication, the whoami endpoints and the admin API.
package http

import (
	"context"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// callerKey is a context key type for storing the resolved caller.
type callerKey struct{}

// WithCaller stores the resolved caller in the context.
func WithCaller(ctx context.Context, caller *envDomain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// GetCaller retrieves the resolved caller from the context.
func GetCaller(ctx context.Context) (*envDomain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(*envDomain.Caller)
	return caller, ok && caller != nil
}
