package auth

import "errors"

// Sentinel errors for every way a request can fail the authentication gate.
// The middleware maps each of these to an HTTP status and OAuth error code.
var (
	// ErrMissingToken indicates the request carried no Authorization header.
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrMalformedToken indicates the Authorization header was present but
	// not of the form "Bearer <token>", or the token value was empty.
	ErrMalformedToken = errors.New("auth: malformed bearer token")

	// ErrIntrospectionUnreachable indicates the introspection endpoint could
	// not be reached (connect error or timeout). Distinguished from a bad
	// token so operators can tell "authorization server down" apart from
	// "token rejected" in logs.
	ErrIntrospectionUnreachable = errors.New("auth: introspection endpoint unreachable")

	// ErrIntrospectionRejected indicates the introspection endpoint answered
	// with a non-2xx status.
	ErrIntrospectionRejected = errors.New("auth: introspection request rejected")

	// ErrIntrospectionMalformed indicates the introspection response body
	// could not be parsed.
	ErrIntrospectionMalformed = errors.New("auth: malformed introspection response")

	// ErrTokenInactive indicates the authorization server reported the token
	// as not active.
	ErrTokenInactive = errors.New("auth: token inactive")

	// ErrAudienceMismatch indicates the token was issued for a different
	// resource server.
	ErrAudienceMismatch = errors.New("auth: token audience mismatch")

	// ErrInsufficientScope indicates the token does not carry the scope
	// required by this server.
	ErrInsufficientScope = errors.New("auth: insufficient scope")
)
