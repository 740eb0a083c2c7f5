package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type GetMasterDataMultipleHandler struct {
	Service MasterDataService
}

func (h *GetMasterDataMultipleHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := stringSliceArgument(req.GetArguments(), "masterData")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := h.Service.FetchMultiple(ctx, types)
	if err != nil {
		return nil, err
	}
	return textResult(res), nil
}
