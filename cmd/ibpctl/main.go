package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/ibp-masterdata-mcp/internal/config"
	"github.com/roivaz/ibp-masterdata-mcp/internal/ibp"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
	"github.com/roivaz/ibp-masterdata-mcp/internal/masterdata"
)

// errNoResult marks a remote error or empty result whose message was already printed.
var errNoResult = errors.New("no master data returned")

func main() {
	root := &cobra.Command{
		Use:           "ibpctl",
		Short:         "Query IBP master data without an MCP client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading configuration")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("ibp-url", "", "IBP OData base URL, ending in '?$'")
	root.PersistentFlags().String("ibp-username", config.DefaultIBPUsername, "IBP basic auth user")
	root.PersistentFlags().String("ibp-request-timeout", "60s", "Timeout for a single IBP request (0 disables)")
	root.PersistentFlags().Int("ibp-max-results", 30, "Maximum values returned per master data type")
	root.PersistentFlags().String("attribute-map", "", "YAML file overriding the master data attribute map")

	root.AddCommand(
		&cobra.Command{
			Use:   "single TYPE",
			Short: "Fetch values for one master data type",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(func(svc *masterdata.Service) (masterdata.Result, error) {
					return svc.FetchSingle(cmd.Context(), args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "multiple TYPE...",
			Short: "Fetch values for several master data types with one request",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(func(svc *masterdata.Service) (masterdata.Result, error) {
					return svc.FetchMultiple(cmd.Context(), args)
				})
			},
		},
		&cobra.Command{
			Use:   "attributes",
			Short: "List master data types and their IBP attributes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(func(svc *masterdata.Service) (masterdata.Result, error) {
					return svc.ListAttributes()
				})
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Validate configuration and probe the IBP endpoint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return check(cmd.Context())
			},
		},
	)

	config.Init(root)

	if err := root.Execute(); err != nil {
		if errors.Is(err, errNoResult) {
			os.Exit(2)
		}
		log.Fatalf("ibpctl: %v", err)
	}
}

func newLogger() (logging.Logger, func(), error) {
	logger, _, sync, err := logging.Setup(config.LogLevel())
	if err != nil {
		return logging.Logger{}, nil, err
	}
	return logger.WithName("ibpctl"), sync, nil
}

func withService(fn func(*masterdata.Service) (masterdata.Result, error)) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	cfg, err := masterdata.LoadConfig()
	if err != nil {
		return err
	}
	svc, err := masterdata.Build(cfg, logger)
	if err != nil {
		return err
	}
	res, err := fn(svc)
	if err != nil {
		return err
	}
	fmt.Println(res.Text)
	if res.Status != masterdata.StatusOK {
		return errNoResult
	}
	return nil
}

func check(ctx context.Context) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	cfg, err := masterdata.LoadConfig()
	if err != nil {
		return err
	}
	attributes, err := masterdata.LoadAttributeMap(cfg.AttributeMapFile)
	if err != nil {
		return err
	}

	fmt.Println("IBP Connection Status:")
	fmt.Println("======================")
	fmt.Printf("📍 Base URL: %s\n", cfg.IBP.BaseURL)
	if cfg.IBP.OAuth != nil {
		fmt.Printf("🔑 Auth: OAuth2 client credentials (%s)\n", cfg.IBP.OAuth.TokenURL)
	} else {
		fmt.Printf("🔑 Auth: basic (%s)\n", cfg.IBP.Username)
	}
	fmt.Printf("📚 Attribute types: %d (default %s)\n\n", len(attributes.Entries()), attributes.Default())

	if err := cfg.IBP.Validate(); err != nil {
		fmt.Printf("❌ Configuration invalid: %v\n", err)
		return err
	}

	client := ibp.NewClient(cfg.IBP, logger)
	start := time.Now()
	resp, err := client.Query(ctx, []string{attributes.Default()})
	if err != nil {
		fmt.Printf("❌ IBP request failed: %v\n", err)
		return err
	}
	if !resp.OK() {
		fmt.Printf("❌ IBP answered %d %s\n", resp.StatusCode, resp.StatusText)
		return fmt.Errorf("IBP returned status %d", resp.StatusCode)
	}
	fmt.Printf("✅ IBP reachable in %s, %d row(s) for %s\n", time.Since(start).Round(time.Millisecond), len(resp.Rows), attributes.Default())
	return nil
}
