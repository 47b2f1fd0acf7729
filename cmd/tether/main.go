// Tether: relationship-coaching MCP server.
//
// Usage:
//
//	tether serve             # Start MCP server (stdio transport)
//	tether version [--check] # Print the version, optionally checking for a newer release
//	tether feedback [-n N]   # List recent feedback submissions
//
// Configuration is read from TETHER_* environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/HendryAvila/tether/internal/config"
	tetherserver "github.com/HendryAvila/tether/internal/server"
	"github.com/HendryAvila/tether/internal/updater"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    config.Config
	logger *zap.Logger

	checkLatest bool
)

var rootCmd = &cobra.Command{
	Use:   "tether",
	Short: "Tether - relationship-coaching MCP server",
	Long: `Tether guides a user through onboarding, a personality assessment and
a couples dashboard from any MCP-capable AI client.

Logs go to stderr; stdout carries the MCP stdio transport.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level, err := cfg.Level()
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "tether v%s\n", tetherserver.Version)
		if !checkLatest {
			return nil
		}
		res, err := updater.NewChecker("", nil).Check(cmd.Context(), tetherserver.Version)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if res.UpdateAvailable {
			fmt.Fprintf(cmd.OutOrStdout(), "Update available: v%s (%s)\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Already at the latest version.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(serveCmd, versionCmd, feedbackCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s, cleanup, err := tetherserver.New(cfg, logger, reg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, reg)
		defer stop()
	}

	logger.Info("serving MCP on stdio")
	return server.ServeStdio(s)
}

// serveMetrics exposes /metrics in the background and returns a function
// that shuts the listener down.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listener started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
