// Package middleware provides the HTTP authentication gate for the MCP
// resource server.
//
// # Bearer token authentication
//
// The primary component is a middleware that validates OAuth 2.0 bearer
// tokens by introspecting them against the configured authorization server
// (RFC 7662). Every request runs the same pipeline independently:
//
//	extract bearer token -> introspect (cache first) -> validate claims -> allow or reject
//
// Any failure terminates the request immediately with a single HTTP error
// response. There are no retries within a request and no session state
// across requests.
//
// # Usage
//
// Create and configure the OAuth middleware with a token verifier:
//
//	config := middleware.NewOAuthConfig(
//	    "http://localhost:8080/realms/master/", // Authorization server issuer
//	    "http://localhost:3000",                // This resource server's URL
//	    []string{"mcp:tools"},                  // Supported scopes
//	    verifier,                               // auth.Verifier
//	)
//
//	// Wrap your handlers
//	http.Handle("/", config.OAuthMiddleware(yourHandler))
//
// # Rejection mapping
//
// Each failure class maps to a fixed HTTP status:
//   - 401: missing or malformed Authorization header, inactive token,
//     introspection rejected or unparseable. The response carries a
//     WWW-Authenticate header pointing at the resource metadata URL.
//   - 403: token audience does not include this server, or the required
//     scope is missing.
//   - 503: the introspection endpoint could not be reached. This keeps
//     "authorization server is down" distinguishable from "token is bad".
//
// Error bodies use the standard OAuth shape ({"error","error_description"})
// and never include introspection internals.
//
// # Request context
//
// After successful authorization, the middleware injects the verified
// identity and the raw token into the request context. Downstream handlers
// retrieve them with IdentityFrom and Token:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    identity := middleware.IdentityFrom(r.Context())
//	    // identity.Subject, identity.ClientID, identity.Scopes
//	}
//
// # Protected Resource Metadata
//
// The package also provides a metadata endpoint handler that exposes OAuth
// Protected Resource Metadata as defined in RFC 9728, including the
// authorization server URL, resource server URL, and supported scopes:
//
//	http.HandleFunc("/.well-known/oauth-protected-resource",
//	    config.HandleProtectedResourceMetadata)
//
// This endpoint must stay outside the auth middleware: it is how clients
// without a token discover the authorization server.
package middleware
