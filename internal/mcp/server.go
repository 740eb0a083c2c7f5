package mcp

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolGetSingleMasterData   = "get-single-ibp-master-data"
	ToolGetMasterDataMultiple = "get-ibp-master-data-multiple"
	ToolListAttributes        = "list-ibp-master-data-attributes"
	ToolFetchWeather          = "fetch-weather"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

var toolDefinitions = map[string]mcp.Tool{
	ToolGetSingleMasterData: mcp.NewTool(ToolGetSingleMasterData,
		mcp.WithDescription("Tool to fetch master data from IBP for a single master data type"),
		mcp.WithString("masterData",
			mcp.Required(),
			mcp.Description("Master data name"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	),
	ToolGetMasterDataMultiple: mcp.NewTool(ToolGetMasterDataMultiple,
		mcp.WithDescription("Tool to fetch master data from IBP for multiple master data types"),
		mcp.WithArray("masterData",
			mcp.Required(),
			mcp.Description("Master data names"),
			mcp.WithStringItems(),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	),
	ToolListAttributes: mcp.NewTool(ToolListAttributes,
		mcp.WithDescription("Tool to list possible master data types and their IBP attribute names to properly call the other tools"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	),
	ToolFetchWeather: mcp.NewTool(ToolFetchWeather,
		mcp.WithDescription("Tool to fetch the weather of a city"),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("City name"),
		),
	),
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for name, adapter := range cfg.ToolAdapters {
		tool, ok := toolDefinitions[name]
		if !ok {
			cfg.Logger.Info("no definition for tool adapter; skipping", "tool", name)
			continue
		}
		mcpServer.AddTool(tool, adapter.ToolAdapter)
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	// The streamable server answers on any path; only its endpoint is exposed.
	endpoint := cfg.EndpointPath
	if endpoint == "" {
		endpoint = EndpointPath
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, httpServer)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: mux,
	}
}

// ServeStdio serves MCP over the given streams until ctx is cancelled or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s.MCP)
	if errLog != nil {
		stdio.SetErrorLogger(errLog)
	}
	return stdio.Listen(ctx, in, out)
}
