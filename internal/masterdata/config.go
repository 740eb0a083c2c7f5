package masterdata

import (
	"github.com/roivaz/ibp-masterdata-mcp/internal/config"
	"github.com/roivaz/ibp-masterdata-mcp/internal/ibp"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
)

type Config struct {
	IBP              ibp.Config
	AttributeMapFile string
	MaxResults       int
}

// LoadConfig reads the service configuration once. Missing URL or
// credentials are not rejected here: they fail the first tool call instead.
func LoadConfig() (Config, error) {
	timeout, err := config.IBPRequestTimeout()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		IBP: ibp.Config{
			BaseURL:  config.IBPURL(),
			Username: config.IBPUsername(),
			Password: config.IBPPassword(),
			Timeout:  timeout,
		},
		AttributeMapFile: config.AttributeMapFile(),
		MaxResults:       config.IBPMaxResults(),
	}
	if tokenURL := config.IBPTokenURL(); tokenURL != "" {
		cfg.IBP.OAuth = &ibp.OAuthConfig{
			TokenURL:     tokenURL,
			ClientID:     config.IBPClientID(),
			ClientSecret: config.IBPClientSecret(),
		}
	}
	return cfg, nil
}

// Build wires the attribute map, IBP client and service together.
func Build(cfg Config, log logging.Logger) (*Service, error) {
	attributes, err := LoadAttributeMap(cfg.AttributeMapFile)
	if err != nil {
		return nil, err
	}
	client := ibp.NewClient(cfg.IBP, log)
	return NewService(attributes, client, log, WithMaxResults(cfg.MaxResults)), nil
}
