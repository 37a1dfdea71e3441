package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/oauthex"
	"go.uber.org/zap"

	"mcpauth/internal/auth"
)

// wellKnownMetadataPath is where the RFC 9728 protected resource metadata
// document is served.
const wellKnownMetadataPath = "/.well-known/oauth-protected-resource"

// CORS constants for the protected resource metadata endpoint.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// TokenVerifier authenticates a single bearer token, returning the identity
// it grants or one of the auth package sentinel errors.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// NewOAuthConfig creates and returns a new OAuthConfig value.
func NewOAuthConfig(authorizationServerURL, resourceURL string, supportedScopes []string, verifier TokenVerifier) *OAuthConfig {
	return &OAuthConfig{
		AuthorizationServerURL: authorizationServerURL,
		ResourceURL:            resourceURL,
		SupportedScopes:        supportedScopes,
		Verifier:               verifier,
	}
}

// OAuthConfig holds OAuth configuration.
type OAuthConfig struct {
	// AuthorizationServerURL is the issuer URL of the authorization server
	// that can introspect tokens for this resource server.
	AuthorizationServerURL string

	// ResourceURL is the user-facing URL for this resource server. A token
	// is only accepted when this URL appears in its audience.
	ResourceURL string

	// SupportedScopes is the list of OAuth 2.0 scopes advertised in the
	// protected resource metadata.
	SupportedScopes []string

	// Verifier validates bearer tokens via authorization server
	// introspection.
	Verifier TokenVerifier
}

// OAuthMiddleware authenticates every request through token introspection
// before handing it to the next handler. Each request is authenticated
// independently; there is no session state. On success the verified
// identity and the raw token are available from the request context.
func (c *OAuthConfig) OAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.Verifier == nil {
			zap.L().Error("token verifier not configured")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			c.sendRejection(w, err)
			return
		}

		identity, err := c.Verifier.Verify(r.Context(), token)
		if err != nil {
			c.sendRejection(w, err)
			return
		}

		ctx := WithIdentity(WithToken(r.Context(), token), identity)
		next.ServeHTTP(w, r.Clone(ctx))
	})
}

// extractToken extracts the Bearer token from the Authorization header. The
// scheme keyword is matched case-insensitively per RFC 6750.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrMalformedToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMalformedToken
	}

	return token, nil
}

// oauthError is the standard OAuth error response body. Nothing beyond the
// error code and a generic description is ever returned to the client.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// sendRejection maps a gate failure to its HTTP response: 401 for a missing
// or bad token, 403 for insufficient scope or audience mismatch, 503 when
// the authorization server cannot be reached. 401 responses carry a
// WWW-Authenticate header pointing at the resource metadata document so
// compliant clients can discover the authorization server.
func (c *OAuthConfig) sendRejection(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	body := oauthError{Error: "invalid_token", ErrorDescription: "token validation failed"}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		body = oauthError{Error: "invalid_request", ErrorDescription: "missing bearer token"}
	case errors.Is(err, auth.ErrMalformedToken):
		body = oauthError{Error: "invalid_request", ErrorDescription: "malformed authorization header"}
	case errors.Is(err, auth.ErrInsufficientScope):
		status = http.StatusForbidden
		body = oauthError{Error: "insufficient_scope", ErrorDescription: "token does not grant the required scope"}
	case errors.Is(err, auth.ErrAudienceMismatch):
		status = http.StatusForbidden
		body = oauthError{Error: "invalid_token", ErrorDescription: "token was not issued for this resource"}
	case errors.Is(err, auth.ErrIntrospectionUnreachable):
		status = http.StatusServiceUnavailable
		body = oauthError{Error: "temporarily_unavailable", ErrorDescription: "token validation is temporarily unavailable"}
	}

	zap.L().Debug("request rejected", zap.Int("status", status), zap.Error(err))

	if status == http.StatusUnauthorized {
		metadataURL, err := url.JoinPath(c.ResourceURL, wellKnownMetadataPath)
		if err != nil {
			zap.L().Error("Failed to construct metadata URL", zap.Error(err))
			http.Error(w, "Failed to construct metadata URL", http.StatusInternalServerError)
			return
		}

		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf("Bearer resource_metadata=%q", metadataURL))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("Failed to write error response", zap.Error(err))
	}
}

// HandleProtectedResourceMetadata handles the protected resource metadata
// endpoint (RFC 9728). It is deliberately not behind the auth middleware:
// clients must be able to reach it without a token, since it is how they
// discover where to obtain one.
func (c *OAuthConfig) HandleProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
	w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	metadata := oauthex.ProtectedResourceMetadata{
		Resource:             c.ResourceURL,
		ScopesSupported:      c.SupportedScopes,
		AuthorizationServers: []string{c.AuthorizationServerURL},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		zap.L().Error("Failed to marshal protected resource metadata", zap.Error(err))
	}
}
