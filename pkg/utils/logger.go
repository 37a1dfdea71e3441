package utils

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpauth/internal/middleware"
)

// NewChildLogger returns a logger carrying the tool name, the MCP session id
// and the authenticated caller, so every log line from a tool handler can be
// tied back to a request.
func NewChildLogger(ctx context.Context, toolReq *mcp.CallToolRequest) *zap.Logger {
	var args []zap.Field

	if toolReq.Params != nil {
		args = append(args, zap.String("tool-name", toolReq.Params.Name))
	}
	if toolReq.Session != nil && toolReq.Session.ID() != "" {
		args = append(args, zap.String("mcp-request-id", toolReq.Session.ID()))
	}
	if identity := middleware.IdentityFrom(ctx); identity != nil {
		args = append(args,
			zap.String("subject", identity.Subject),
			zap.String("client-id", identity.ClientID))
	}

	return zap.L().With(args...)
}
