package auth

import "strings"

// Validator checks the claims of an introspection result against this
// resource server's identity and scope requirements.
type Validator struct {
	// ResourceURL is the canonical URL of this resource server. A token is
	// only accepted when this URL appears in its audience.
	ResourceURL string

	// RequiredScope must be present in the token's scope set.
	RequiredScope string
}

// NewValidator creates a Validator for the given resource URL and scope.
func NewValidator(resourceURL, requiredScope string) *Validator {
	return &Validator{
		ResourceURL:   resourceURL,
		RequiredScope: requiredScope,
	}
}

// Validate returns the Identity carried by the result, or the sentinel error
// describing why the token is unacceptable. The checks run in a fixed order:
// active flag first, then audience, then scope. The audience check is
// unconditional - there is deliberately no way to switch it off.
func (v *Validator) Validate(result *IntrospectionResult) (*Identity, error) {
	if !result.Active {
		return nil, ErrTokenInactive
	}

	if !v.audienceAllowed(result.Audience) {
		return nil, ErrAudienceMismatch
	}

	if !result.HasScope(v.RequiredScope) {
		return nil, ErrInsufficientScope
	}

	return &Identity{
		Subject:   result.Subject,
		ClientID:  result.ClientID,
		Scopes:    result.Scopes,
		ExpiresAt: result.ExpiresAt,
	}, nil
}

func (v *Validator) audienceAllowed(audience []string) bool {
	if v.ResourceURL == "" {
		return false
	}

	for _, aud := range audience {
		if canonicalURL(aud) == canonicalURL(v.ResourceURL) {
			return true
		}
	}

	return false
}

// canonicalURL strips a single trailing slash so "http://host:3000/" and
// "http://host:3000" compare equal. Anything beyond that is an exact match.
func canonicalURL(u string) string {
	return strings.TrimSuffix(u, "/")
}
