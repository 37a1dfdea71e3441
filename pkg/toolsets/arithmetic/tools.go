package arithmetic

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolsSet    = "arithmetic"
	toolsSetAnn = "toolset"
)

// Tools contains the arithmetic example tools for the MCP server.
type Tools struct {
	now func() time.Time
}

// NewTools creates and returns a new Tools instance.
func NewTools() *Tools {
	return &Tools{now: time.Now}
}

// AddTools registers the arithmetic tools with the provided MCP server.
// Each tool is configured with metadata identifying it as part of the
// arithmetic toolset.
func (t *Tools) AddTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "addNumbers",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Add two numbers together.
		Parameters:
		a (number, required): The first number to add.
		b (number, required): The second number to add.

		Returns:
		The sum of the two numbers with the operation metadata.`},
		t.addNumbers,
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "multiplyNumbers",
		Meta: map[string]any{
			toolsSetAnn: toolsSet,
		},
		Description: `Multiply two numbers together.
		Parameters:
		x (number, required): The first number to multiply.
		y (number, required): The second number to multiply.

		Returns:
		The product of the two numbers with the operation metadata.`},
		t.multiplyNumbers,
	)
}
