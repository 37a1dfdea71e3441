package arithmetic

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"mcpauth/pkg/response"
	"mcpauth/pkg/utils"
)

// addNumbersParams specifies the two operands for addition.
type addNumbersParams struct {
	A float64 `json:"a" jsonschema:"the first number to add"`
	B float64 `json:"b" jsonschema:"the second number to add"`
}

// additionResult is the structured output of the addNumbers tool.
type additionResult struct {
	Operation string  `json:"operation"`
	OperandA  float64 `json:"operand_a"`
	OperandB  float64 `json:"operand_b"`
	Result    float64 `json:"result"`
	Timestamp string  `json:"timestamp"`
}

// addNumbers adds two numbers together. It only runs for requests that
// passed the auth gate; the verified identity is available from the context.
func (t *Tools) addNumbers(ctx context.Context, toolReq *mcp.CallToolRequest, params addNumbersParams) (*mcp.CallToolResult, any, error) {
	logger := utils.NewChildLogger(ctx, toolReq)
	logger.Debug("addNumbers called")

	result := additionResult{
		Operation: "addition",
		OperandA:  params.A,
		OperandB:  params.B,
		Result:    params.A + params.B,
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
