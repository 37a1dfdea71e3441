package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"mcpauth/internal/auth"
	"mcpauth/internal/middleware/mocks"
)

const (
	testAuthServerURL = "http://localhost:8080/realms/master/"
	testResourceURL   = "http://localhost:3000"
	testScope         = "mcp:tools"
)

func testConfig(verifier TokenVerifier) *OAuthConfig {
	return NewOAuthConfig(testAuthServerURL, testResourceURL, []string{testScope}, verifier)
}

// testHandler echoes the identity subject and token from the request context
// so tests can verify both were injected.
func testHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFrom(r.Context())
		if identity == nil {
			http.Error(w, "no identity in context", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "subject %s token %s", identity.Subject, Token(r.Context()))
	})
}

func TestOAuthMiddlewareValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "tok-valid").
		Return(&auth.Identity{Subject: "alice", ClientID: "mcp-client", Scopes: []string{testScope}}, nil)

	handler := testConfig(verifier).OAuthMiddleware(testHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-valid")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "subject alice token tok-valid", rr.Body.String())
}

func TestOAuthMiddlewareCaseInsensitiveScheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "tok-valid").
		Return(&auth.Identity{Subject: "alice"}, nil)

	handler := testConfig(verifier).OAuthMiddleware(testHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "bearer tok-valid")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestOAuthMiddlewareNoAuthorizationHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockTokenVerifier(ctrl)

	handler := testConfig(verifier).OAuthMiddleware(testHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	expectedMetadataURL := testResourceURL + "/.well-known/oauth-protected-resource"
	assert.Equal(t,
		fmt.Sprintf("Bearer resource_metadata=%q", expectedMetadataURL),
		rr.Header().Get("WWW-Authenticate"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body["error"])
}

func TestOAuthMiddlewareMalformedHeaderCases(t *testing.T) {
	tests := map[string]struct {
		header string
	}{
		"wrong scheme":      {header: "Basic sometoken"},
		"empty token":       {header: "Bearer "},
		"scheme only":       {header: "Bearer"},
		"whitespace token":  {header: "Bearer    "},
		"no scheme at all":  {header: "tok-valid"},
		"digest credential": {header: "Digest username=alice"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			verifier := mocks.NewMockTokenVerifier(ctrl)

			handler := testConfig(verifier).OAuthMiddleware(testHandler())
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", test.header)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestOAuthMiddlewareRejectionMapping(t *testing.T) {
	tests := map[string]struct {
		verifyErr       error
		expectedStatus  int
		expectedError   string
		wwwAuthenticate bool
	}{
		"inactive token": {
			verifyErr:       auth.ErrTokenInactive,
			expectedStatus:  http.StatusUnauthorized,
			expectedError:   "invalid_token",
			wwwAuthenticate: true,
		},
		"introspection rejected": {
			verifyErr:       auth.ErrIntrospectionRejected,
			expectedStatus:  http.StatusUnauthorized,
			expectedError:   "invalid_token",
			wwwAuthenticate: true,
		},
		"introspection malformed": {
			verifyErr:       auth.ErrIntrospectionMalformed,
			expectedStatus:  http.StatusUnauthorized,
			expectedError:   "invalid_token",
			wwwAuthenticate: true,
		},
		"audience mismatch": {
			verifyErr:      auth.ErrAudienceMismatch,
			expectedStatus: http.StatusForbidden,
			expectedError:  "invalid_token",
		},
		"insufficient scope": {
			verifyErr:      auth.ErrInsufficientScope,
			expectedStatus: http.StatusForbidden,
			expectedError:  "insufficient_scope",
		},
		"introspection unreachable": {
			verifyErr:      auth.ErrIntrospectionUnreachable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "temporarily_unavailable",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			verifier := mocks.NewMockTokenVerifier(ctrl)
			verifier.EXPECT().Verify(gomock.Any(), "tok").Return(nil, test.verifyErr)

			handler := testConfig(verifier).OAuthMiddleware(testHandler())
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, test.expectedStatus, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, test.expectedError, body["error"])

			if test.wwwAuthenticate {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestOAuthMiddlewareNoVerifier(t *testing.T) {
	handler := testConfig(nil).OAuthMiddleware(testHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

// TestOAuthMiddlewareEndToEnd runs the full pipeline against a fake
// authorization server: extraction, introspection, claim validation and the
// final HTTP mapping.
func TestOAuthMiddlewareEndToEnd(t *testing.T) {
	introspections := map[string]string{
		"tok-valid":     `{"active": true, "scope": "mcp:tools", "aud": "http://localhost:3000", "sub": "alice"}`,
		"tok-wrong-aud": `{"active": true, "scope": "mcp:tools", "aud": "http://other-server", "sub": "alice"}`,
		"tok-no-scope":  `{"active": true, "scope": "openid", "aud": "http://localhost:3000", "sub": "alice"}`,
		"tok-revoked":   `{"active": false}`,
	}

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		body, ok := introspections[r.PostFormValue("token")]
		if !ok {
			body = `{"active": false}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer authServer.Close()

	client := auth.NewIntrospectionClient(authServer.URL, "mcp-server", "secret", 5*time.Second)
	cache := auth.NewTokenCache(time.Minute)
	defer cache.Stop()
	verifier := auth.NewVerifier(client, cache, auth.NewValidator(testResourceURL, testScope))

	handler := testConfig(verifier).OAuthMiddleware(testHandler())

	tests := map[string]struct {
		token          string
		expectedStatus int
		expectedBody   string
	}{
		"valid token allowed": {
			token:          "tok-valid",
			expectedStatus: http.StatusOK,
			expectedBody:   "subject alice token tok-valid",
		},
		"wrong audience forbidden": {
			token:          "tok-wrong-aud",
			expectedStatus: http.StatusForbidden,
		},
		"missing scope forbidden": {
			token:          "tok-no-scope",
			expectedStatus: http.StatusForbidden,
		},
		"revoked token unauthorized": {
			token:          "tok-revoked",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", "Bearer "+test.token)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, test.expectedStatus, rr.Code)
			if test.expectedBody != "" {
				assert.Equal(t, test.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestHandleProtectedResourceMetadata(t *testing.T) {
	config := testConfig(nil)
	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-protected-resource", nil)
	rr := httptest.NewRecorder()

	config.HandleProtectedResourceMetadata(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var metadata struct {
		Resource             string   `json:"resource"`
		AuthorizationServers []string `json:"authorization_servers"`
		ScopesSupported      []string `json:"scopes_supported"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &metadata))
	assert.Equal(t, testResourceURL, metadata.Resource)
	assert.Equal(t, []string{testAuthServerURL}, metadata.AuthorizationServers)
	assert.Equal(t, []string{testScope}, metadata.ScopesSupported)
}

func TestHandleProtectedResourceMetadataOptions(t *testing.T) {
	config := testConfig(nil)
	req := httptest.NewRequest(http.MethodOptions, "/.well-known/oauth-protected-resource", nil)
	rr := httptest.NewRecorder()

	config.HandleProtectedResourceMetadata(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
