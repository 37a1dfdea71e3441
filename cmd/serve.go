package cmd

import (
	"fmt"
	"net/http"

	"mcpauth/internal/auth"
	"mcpauth/internal/config"
	"mcpauth/internal/middleware"
	"mcpauth/pkg/toolsets"
	"mcpauth/pkg/version"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	port      int
	transport string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long:  `Start the MCP resource server, validating every request via token introspection`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides the PORT environment variable)")
	serveCmd.Flags().StringVar(&transport, "transport", "", "Transport mode: streamable-http or sse (overrides the TRANSPORT environment variable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport = transport
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "mcp-auth-server",
		Version: version.GetVersion(),
	}, nil)
	toolsets.AddAllTools(mcpServer)

	handler := newTransportHandler(cfg, mcpServer)

	verifier := newVerifier(cfg)
	defer verifier.Close()

	oauthConfig := middleware.NewOAuthConfig(
		cfg.IssuerURL(),
		cfg.ServerURL(),
		[]string{cfg.RequiredScope},
		verifier,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/oauth-protected-resource", oauthConfig.HandleProtectedResourceMetadata)
	mux.Handle("/", oauthConfig.OAuthMiddleware(handler))

	zap.L().Info("MCP Server started!",
		zap.Int("port", cfg.Port),
		zap.String("transport", cfg.Transport),
		zap.String("authorizationServer", cfg.IssuerURL()))
	zap.L().Debug("authorization server endpoints",
		zap.String("introspection", cfg.IntrospectionEndpoint()),
		zap.String("authorization", cfg.AuthorizationEndpoint()),
		zap.String("token", cfg.TokenEndpoint()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	return http.ListenAndServe(addr, mux)
}

// newVerifier wires the introspection client, token cache and claim
// validator from the loaded configuration.
func newVerifier(cfg *config.Config) *auth.Verifier {
	client := auth.NewIntrospectionClient(
		cfg.IntrospectionEndpoint(),
		cfg.OAuthClientID,
		cfg.OAuthClientSecret,
		cfg.IntrospectionTimeout,
	)
	cache := auth.NewTokenCache(cfg.TokenCacheTTL)
	validator := auth.NewValidator(cfg.ServerURL(), cfg.RequiredScope)

	return auth.NewVerifier(client, cache, validator)
}

func newTransportHandler(cfg *config.Config, mcpServer *mcp.Server) http.Handler {
	getServer := func(request *http.Request) *mcp.Server {
		return mcpServer
	}

	if cfg.Transport == config.TransportSSE {
		return mcp.NewSSEHandler(getServer, &mcp.SSEOptions{})
	}

	return mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{})
}
