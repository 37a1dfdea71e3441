package toolsets

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mcpauth/pkg/toolsets/arithmetic"
)

// toolsAdder is an interface for types that can add tools to an MCP server.
type toolsAdder interface {
	AddTools(mcpServer *mcp.Server)
}

// AddAllTools adds all available tools to the MCP server.
func AddAllTools(mcpServer *mcp.Server) {
	for _, ta := range allToolSets() {
		ta.AddTools(mcpServer)
	}
}

func allToolSets() []toolsAdder {
	return []toolsAdder{
		arithmetic.NewTools(),
	}
}
