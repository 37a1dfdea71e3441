package middleware

import (
	"context"

	"mcpauth/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions with
// other packages that might use string keys. Using a struct pointer ensures
// uniqueness since each instance has a unique memory address.
type contextKey struct{ name string }

var (
	// tokenCtxKey is the context key for storing the raw bearer token.
	// It's unexported to prevent external packages from accessing it directly.
	tokenCtxKey = &contextKey{"token"}

	// identityCtxKey is the context key for storing the verified identity.
	identityCtxKey = &contextKey{"identity"}
)

// Token context helpers.

// WithToken sets the token into the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// Token gets the token from the context.
//
// Returns empty string if no token is found.
func Token(ctx context.Context) string {
	token, ok := ctx.Value(tokenCtxKey).(string)
	if ok {
		return token
	}

	return ""
}

// Identity context helpers.

// WithIdentity sets the verified identity into the context. The identity
// lives for exactly one request; it is never shared across requests.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFrom gets the verified identity from the context.
//
// Returns nil if the request did not pass the auth middleware.
func IdentityFrom(ctx context.Context) *auth.Identity {
	identity, ok := ctx.Value(identityCtxKey).(*auth.Identity)
	if ok {
		return identity
	}

	return nil
}
