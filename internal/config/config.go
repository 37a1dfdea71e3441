package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Transport mode selectors for the MCP server.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
)

// Config holds every setting the server needs, loaded once at startup and
// passed by reference to the components that need it. It is never mutated
// after Load returns.
type Config struct {
	// Host and Port are the listen address of this resource server.
	Host string
	Port int

	// AuthHost, AuthPort and AuthRealm locate the authorization server.
	// The realm follows the Keycloak URL layout.
	AuthHost  string
	AuthPort  int
	AuthRealm string

	// OAuthClientID and OAuthClientSecret authenticate this server to the
	// introspection endpoint.
	OAuthClientID     string
	OAuthClientSecret string

	// RequiredScope is the scope a token must carry to invoke tools.
	RequiredScope string

	// Transport selects how MCP requests are carried over HTTP.
	Transport string

	// IntrospectionTimeout bounds each introspection network call.
	IntrospectionTimeout time.Duration

	// TokenCacheTTL is the maximum lifetime of a cached introspection
	// result. Zero disables caching.
	TokenCacheTTL time.Duration
}

// Load reads the configuration from environment variables, applying the
// defaults below for anything unset.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", 3000)
	v.SetDefault("AUTH_HOST", "localhost")
	v.SetDefault("AUTH_PORT", 8080)
	v.SetDefault("AUTH_REALM", "master")
	v.SetDefault("OAUTH_CLIENT_ID", "mcp-server")
	v.SetDefault("OAUTH_CLIENT_SECRET", "")
	v.SetDefault("MCP_SCOPE", "mcp:tools")
	v.SetDefault("TRANSPORT", TransportStreamableHTTP)
	v.SetDefault("INTROSPECTION_TIMEOUT", "10s")
	v.SetDefault("TOKEN_CACHE_TTL", "1m")

	return &Config{
		Host:                 v.GetString("HOST"),
		Port:                 v.GetInt("PORT"),
		AuthHost:             v.GetString("AUTH_HOST"),
		AuthPort:             v.GetInt("AUTH_PORT"),
		AuthRealm:            v.GetString("AUTH_REALM"),
		OAuthClientID:        v.GetString("OAUTH_CLIENT_ID"),
		OAuthClientSecret:    v.GetString("OAUTH_CLIENT_SECRET"),
		RequiredScope:        v.GetString("MCP_SCOPE"),
		Transport:            v.GetString("TRANSPORT"),
		IntrospectionTimeout: v.GetDuration("INTROSPECTION_TIMEOUT"),
		TokenCacheTTL:        v.GetDuration("TOKEN_CACHE_TTL"),
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Transport != TransportStreamableHTTP && c.Transport != TransportSSE {
		return fmt.Errorf("invalid transport %q: must be %q or %q",
			c.Transport, TransportStreamableHTTP, TransportSSE)
	}

	if c.RequiredScope == "" {
		return fmt.Errorf("required scope cannot be empty")
	}

	return nil
}

// ServerURL is the canonical URL of this resource server, used as the
// expected token audience and in the protected resource metadata.
func (c *Config) ServerURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// AuthBaseURL is the authorization server's realm base URL, Keycloak style.
func (c *Config) AuthBaseURL() string {
	return fmt.Sprintf("http://%s:%d/realms/%s/", c.AuthHost, c.AuthPort, c.AuthRealm)
}

// IssuerURL is the token issuer identifier advertised in the protected
// resource metadata.
func (c *Config) IssuerURL() string {
	return c.AuthBaseURL()
}

// IntrospectionEndpoint is the RFC 7662 endpoint derived from the realm base.
func (c *Config) IntrospectionEndpoint() string {
	return c.authEndpoint("protocol/openid-connect/token/introspect")
}

// AuthorizationEndpoint is the OAuth authorization endpoint, logged at
// startup for operators.
func (c *Config) AuthorizationEndpoint() string {
	return c.authEndpoint("protocol/openid-connect/auth")
}

// TokenEndpoint is the OAuth token endpoint, logged at startup for operators.
func (c *Config) TokenEndpoint() string {
	return c.authEndpoint("protocol/openid-connect/token")
}

func (c *Config) authEndpoint(path string) string {
	endpoint, err := url.JoinPath(c.AuthBaseURL(), path)
	if err != nil {
		// AuthBaseURL is built from fmt.Sprintf and always parses.
		panic(fmt.Sprintf("joining auth endpoint path: %v", err))
	}

	return endpoint
}
