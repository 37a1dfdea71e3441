package auth

import (
	"encoding/json"
	"strings"
	"time"
)

// IntrospectionResult is the parsed RFC 7662 introspection response.
type IntrospectionResult struct {
	// Active reports whether the authorization server considers the token
	// currently valid. Nothing else in the result matters when it is false.
	Active bool

	// Scopes are the scope identifiers granted to the token, split from the
	// space-separated "scope" member.
	Scopes []string

	// Audience holds the identifiers the token is valid for. The wire form
	// may be a single string or a list; both are normalized here.
	Audience []string

	// Subject, ClientID and ExpiresAt are optional metadata passed through
	// to the request context. ExpiresAt is zero when the response carried
	// no "exp" member.
	Subject   string
	ClientID  string
	ExpiresAt time.Time
}

// HasScope reports whether the token carries the given scope. Matching is
// exact string comparison, no wildcard or hierarchy semantics.
func (r *IntrospectionResult) HasScope(scope string) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}

	return false
}

// introspectionResponse mirrors the JSON wire format of an RFC 7662 response.
type introspectionResponse struct {
	Active   bool            `json:"active"`
	Scope    string          `json:"scope"`
	Audience json.RawMessage `json:"aud"`
	Subject  string          `json:"sub"`
	ClientID string          `json:"client_id"`
	Exp      int64           `json:"exp"`
}

// UnmarshalJSON decodes the wire format, normalizing the "aud" member which
// the JWT spec allows to be either a string or a list of strings.
func (r *IntrospectionResult) UnmarshalJSON(data []byte) error {
	var resp introspectionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}

	r.Active = resp.Active
	r.Subject = resp.Subject
	r.ClientID = resp.ClientID

	r.Scopes = nil
	if resp.Scope != "" {
		r.Scopes = strings.Fields(resp.Scope)
	}

	r.ExpiresAt = time.Time{}
	if resp.Exp > 0 {
		r.ExpiresAt = time.Unix(resp.Exp, 0)
	}

	r.Audience = nil
	if len(resp.Audience) > 0 {
		var single string
		if err := json.Unmarshal(resp.Audience, &single); err == nil {
			r.Audience = []string{single}
		} else if err := json.Unmarshal(resp.Audience, &r.Audience); err != nil {
			return err
		}
	}

	return nil
}

// Identity is the reduced view of an introspection result attached to the
// request context after the gate allows a request. It lives for one request
// and is never shared across requests.
type Identity struct {
	Subject   string
	ClientID  string
	Scopes    []string
	ExpiresAt time.Time
}
