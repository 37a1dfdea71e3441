package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client authentication methods for the introspection endpoint.
const (
	// ClientSecretPost sends client_id and client_secret in the form body.
	ClientSecretPost = "client_secret_post"
	// ClientSecretBasic sends the client credentials via HTTP basic auth.
	ClientSecretBasic = "client_secret_basic"
)

// defaultTimeout bounds an introspection call so a slow authorization server
// cannot stall request handling indefinitely.
const defaultTimeout = 10 * time.Second

// IntrospectionClient asks the authorization server whether a token is
// active and what it grants (RFC 7662).
type IntrospectionClient struct {
	// Endpoint is the URL of the token introspection endpoint. Must be
	// https, or http on a loopback host.
	Endpoint string

	// ClientID and ClientSecret authenticate this resource server to the
	// introspection endpoint.
	ClientID     string
	ClientSecret string

	// AuthMethod selects how the client credentials are transmitted.
	// Defaults to ClientSecretPost.
	AuthMethod string

	httpClient *http.Client
}

// NewIntrospectionClient creates an IntrospectionClient for the given
// endpoint and credentials. A zero timeout falls back to the default.
func NewIntrospectionClient(endpoint, clientID, clientSecret string, timeout time.Duration) *IntrospectionClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &IntrospectionClient{
		Endpoint:     endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthMethod:   ClientSecretPost,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Introspect sends the token to the introspection endpoint and parses the
// response. Failures are classified into ErrIntrospectionUnreachable (network
// error or timeout), ErrIntrospectionRejected (non-2xx status) and
// ErrIntrospectionMalformed (unparseable body). A network failure is never
// treated as a valid token.
func (c *IntrospectionClient) Introspect(ctx context.Context, token string) (*IntrospectionResult, error) {
	if err := c.checkEndpoint(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("token", token)
	if c.AuthMethod != ClientSecretBasic {
		form.Set("client_id", c.ClientID)
		form.Set("client_secret", c.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.AuthMethod == ClientSecretBasic {
		req.SetBasicAuth(c.ClientID, c.ClientSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("introspection endpoint unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIntrospectionUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrIntrospectionRejected, resp.StatusCode)
	}

	var result IntrospectionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntrospectionMalformed, err)
	}

	return &result, nil
}

// checkEndpoint refuses to send tokens over cleartext HTTP to anything other
// than a loopback address.
func (c *IntrospectionClient) checkEndpoint() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: invalid endpoint: %v", ErrIntrospectionUnreachable, err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return nil
		}
	}

	return fmt.Errorf("%w: refusing insecure endpoint %q", ErrIntrospectionUnreachable, c.Endpoint)
}
