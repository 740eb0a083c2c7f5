package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
	"github.com/roivaz/ibp-masterdata-mcp/internal/masterdata"
	"github.com/roivaz/ibp-masterdata-mcp/internal/mcp/tools"
)

const (
	MasterDataServerName = "Get IBP Master Data"
	WeatherServerName    = "Demo"
	ServerVersion        = "0.0.1"

	// EndpointPath is where the streamable HTTP transport is mounted.
	EndpointPath = "/mcp/jsonrpc"
)

type Config struct {
	Name         string
	Version      string
	ToolAdapters map[string]ToolAdapter
	EndpointPath string
	Options      []server.StreamableHTTPOption
	Logger       logging.Logger
}

// MasterDataConfig exposes the IBP tools backed by svc.
func MasterDataConfig(svc tools.MasterDataService, log logging.Logger) Config {
	return Config{
		Name:    MasterDataServerName,
		Version: ServerVersion,
		ToolAdapters: map[string]ToolAdapter{
			ToolGetSingleMasterData:   &tools.GetSingleMasterDataHandler{Service: svc},
			ToolGetMasterDataMultiple: &tools.GetMasterDataMultipleHandler{Service: svc},
			ToolListAttributes:        &tools.ListAttributesHandler{Service: svc},
		},
		EndpointPath: EndpointPath,
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(EndpointPath),
			server.WithStateLess(true),
		},
		Logger: log,
	}
}

// WeatherConfig is the learning demo: one tool answering with a canned string.
func WeatherConfig(log logging.Logger) Config {
	return Config{
		Name:    WeatherServerName,
		Version: ServerVersion,
		ToolAdapters: map[string]ToolAdapter{
			ToolFetchWeather: &tools.FetchWeatherHandler{},
		},
		Logger: log,
	}
}

// DefaultConfig builds the IBP server configuration from the environment.
func DefaultConfig(log logging.Logger) (Config, error) {
	mdCfg, err := masterdata.LoadConfig()
	if err != nil {
		return Config{}, err
	}
	svc, err := masterdata.Build(mdCfg, log)
	if err != nil {
		return Config{}, err
	}
	return MasterDataConfig(svc, log), nil
}
