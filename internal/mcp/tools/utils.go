package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/ibp-masterdata-mcp/internal/masterdata"
)

func stringArgument(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return value, nil
}

func stringSliceArgument(args map[string]any, key string) ([]string, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return nil, fmt.Errorf("%s must be provided", key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}

// textResult wraps every fetch outcome, including remote failures, as a
// regular text result.
func textResult(res masterdata.Result) *mcp.CallToolResult {
	return mcp.NewToolResultText(res.Text)
}
