package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createJSONResponse marshals data as the single text block of an MCP
// tool result, the same shape every tool in this package returns on
// success.
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure as a result rather than a
// transport error, so a client sees the zone-parse diagnostics instead of
// a bare RPC failure.
func createErrorResponse(toolName string, err error) (*mcp.CallToolResult, error) {
	result, marshalErr := createJSONResponse(map[string]interface{}{
		"error": map[string]interface{}{
			"tool":    toolName,
			"message": err.Error(),
		},
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	result.IsError = true
	return result, nil
}
