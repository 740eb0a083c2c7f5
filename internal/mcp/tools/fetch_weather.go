package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// FetchWeatherHandler backs the demo server. It never looks anything up.
type FetchWeatherHandler struct{}

func (h *FetchWeatherHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Any string is accepted, including an empty one.
	city, ok := req.GetArguments()["city"].(string)
	if !ok {
		return mcp.NewToolResultError("city must be a string"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("The weather in %s is sunny.", city)), nil
}
