// Package auth implements OAuth 2.0 bearer token verification for the MCP
// resource server using token introspection (RFC 7662).
//
// The package is built from four pieces:
//
//   - IntrospectionClient performs the network call to the authorization
//     server's introspection endpoint and classifies failures
//     (unreachable, rejected, malformed).
//   - TokenCache memoizes positive introspection results for a bounded TTL,
//     keyed by a SHA-256 hash of the token.
//   - Validator checks the active flag, audience and scope claims against
//     this server's canonical URL and required scope.
//   - Verifier composes the three into a single Verify call used by the
//     HTTP middleware.
//
// Every failure mode is a sentinel error in errors.go; callers classify with
// errors.Is and map each class to an HTTP status. An inactive token is
// rejected unconditionally, and the audience check cannot be disabled.
package auth
