package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/ibp-masterdata-mcp/internal/config"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
	"github.com/roivaz/ibp-masterdata-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "ibp-mcp",
		Short:        "MCP server exposing SAP IBP master data",
		SilenceUsage: true,
		RunE:         run,
	}

	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading configuration")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("transport", "stdio", "MCP transport (stdio or http)")
	root.PersistentFlags().String("host", "0.0.0.0", "HTTP host")
	root.PersistentFlags().Int("port", 8000, "HTTP port")
	root.PersistentFlags().String("ibp-url", "", "IBP OData base URL, ending in '?$'")
	root.PersistentFlags().String("ibp-username", config.DefaultIBPUsername, "IBP basic auth user")
	root.PersistentFlags().String("ibp-request-timeout", "60s", "Timeout for a single IBP request (0 disables)")
	root.PersistentFlags().Int("ibp-max-results", 30, "Maximum values returned per master data type")
	root.PersistentFlags().String("attribute-map", "", "YAML file overriding the master data attribute map")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("ibp-mcp: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, stdLog, sync, err := logging.Setup(config.LogLevel())
	if err != nil {
		return err
	}
	defer sync()
	logger = logger.WithName("ibp-mcp")

	cfg, err := mcp.DefaultConfig(logger)
	if err != nil {
		return fmt.Errorf("configure server: %w", err)
	}
	srv := mcp.New(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch transport := config.Transport(); transport {
	case "stdio":
		logger.Info("serving MCP over stdio")
		return srv.ServeStdio(ctx, os.Stdin, os.Stdout, stdLog)
	case "http":
		return serveHTTP(ctx, srv, logger)
	default:
		return fmt.Errorf("unsupported transport %q", transport)
	}
}

func serveHTTP(ctx context.Context, srv *mcp.Server, logger logging.Logger) error {
	addr := config.Host() + ":" + strconv.Itoa(config.Port())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
