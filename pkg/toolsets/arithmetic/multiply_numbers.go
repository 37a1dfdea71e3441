package arithmetic

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpauth/pkg/response"
	"mcpauth/pkg/utils"
)

// multiplyNumbersParams specifies the two operands for multiplication.
type multiplyNumbersParams struct {
	X float64 `json:"x" jsonschema:"the first number to multiply"`
	Y float64 `json:"y" jsonschema:"the second number to multiply"`
}

// multiplicationResult is the structured output of the multiplyNumbers tool.
type multiplicationResult struct {
	Operation string  `json:"operation"`
	OperandX  float64 `json:"operand_x"`
	OperandY  float64 `json:"operand_y"`
	Result    float64 `json:"result"`
	Timestamp string  `json:"timestamp"`
}

// multiplyNumbers multiplies two numbers together.
func (t *Tools) multiplyNumbers(ctx context.Context, toolReq *mcp.CallToolRequest, params multiplyNumbersParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(ctx, toolReq)
	logger.Debug("multiplyNumbers called")

	result := multiplicationResult{
		Operation: "multiplication",
		OperandX:  params.X,
		OperandY:  params.Y,
		Result:    params.X * params.Y,
		Timestamp: t.now().Format(time.RFC3339),
	}

	mcpResponse, err := response.CreateMcpResponse(result)
	if err != nil {
		logger.Error("failed to create mcp response", zap.Error(err))
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: mcpResponse}},
	}, nil, nil
}
