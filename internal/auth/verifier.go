package auth

import (
	"context"

	"go.uber.org/zap"
)

// introspector is the network seam of the Verifier, satisfied by
// IntrospectionClient.
type introspector interface {
	Introspect(ctx context.Context, token string) (*IntrospectionResult, error)
}

// Verifier composes the introspection client, the token cache and the claim
// validator into the single per-request authentication decision.
type Verifier struct {
	client    introspector
	cache     *TokenCache
	validator *Validator
}

// NewVerifier wires an introspection client, cache and validator together.
func NewVerifier(client *IntrospectionClient, cache *TokenCache, validator *Validator) *Verifier {
	return &Verifier{
		client:    client,
		cache:     cache,
		validator: validator,
	}
}

// Verify authenticates a single bearer token. The cache is consulted first;
// on a miss the token is introspected over the network and, if active, the
// result is cached. Claim validation always runs, cached or not, so a scope
// or audience change in configuration takes effect without a cache flush.
//
// Introspection runs without any lock held; two concurrent requests with the
// same uncached token may both introspect, which is harmless since
// introspection is idempotent on the authorization server.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	result := v.cache.Get(token)
	if result == nil {
		var err error
		result, err = v.client.Introspect(ctx, token)
		if err != nil {
			return nil, err
		}

		// Inactive verdicts are never cached: a token could be activated
		// (or reissued) at any moment and a stale negative would lock the
		// caller out for the whole TTL.
		if result.Active {
			v.cache.Set(token, result)
		}
	}

	identity, err := v.validator.Validate(result)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("token verified",
		zap.String("subject", identity.Subject),
		zap.String("client_id", identity.ClientID))

	return identity, nil
}

// Close releases the verifier's background resources.
func (v *Verifier) Close() {
	v.cache.Stop()
}
