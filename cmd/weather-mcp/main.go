// Command weather-mcp is a learning demo: a minimal MCP server whose single
// tool answers with a canned forecast. It does not fetch real weather data.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roivaz/ibp-masterdata-mcp/internal/config"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
	"github.com/roivaz/ibp-masterdata-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "weather-mcp",
		Short:        "Demo MCP server with a canned weather tool",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, stdLog, sync, err := logging.Setup(config.LogLevel())
			if err != nil {
				return err
			}
			defer sync()

			srv := mcp.New(mcp.WeatherConfig(logger.WithName("weather-mcp")))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ServeStdio(ctx, os.Stdin, os.Stdout, stdLog)
		},
	}
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("weather-mcp: %v", err)
	}
}
