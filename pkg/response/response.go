package response

import (
	"encoding/json"
	"fmt"
)

// MCPResponse represents the response returned by the MCP server
type MCPResponse struct {
	// LLM response to be sent to the LLM
	LLM any `json:"llm"`
}

// CreateMcpResponse wraps a tool result in the MCP response envelope and
// marshals it into a JSON string.
func CreateMcpResponse(result any) (string, error) {
	resp := MCPResponse{LLM: result}

	bytes, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(bytes), nil
}
