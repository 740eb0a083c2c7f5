package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/ibp-masterdata-mcp/internal/masterdata"
)

type MasterDataService interface {
	FetchSingle(ctx context.Context, typ string) (masterdata.Result, error)
	FetchMultiple(ctx context.Context, types []string) (masterdata.Result, error)
	ListAttributes() (masterdata.Result, error)
}

type GetSingleMasterDataHandler struct {
	Service MasterDataService
}

func (h *GetSingleMasterDataHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := stringArgument(req.GetArguments(), "masterData")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := h.Service.FetchSingle(ctx, typ)
	if err != nil {
		return nil, err
	}
	return textResult(res), nil
}
