package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type ListAttributesHandler struct {
	Service MasterDataService
}

func (h *ListAttributesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.Service.ListAttributes()
	if err != nil {
		return nil, err
	}
	return textResult(res), nil
}
