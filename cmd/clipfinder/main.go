// Package main provides the clipfinder CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Dagingo/clip-finder/internal/config"
	"github.com/Dagingo/clip-finder/internal/logger"
	"github.com/Dagingo/clip-finder/internal/metrics"
	"github.com/Dagingo/clip-finder/internal/preset"
	"github.com/Dagingo/clip-finder/internal/telemetry"
	"github.com/Dagingo/clip-finder/pkg/oauth"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const tokenProvider = "twitch"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func currentVersion() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(version, info)
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// env is what a command needs from the process environment.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	presets *preset.Store
	tokens  *oauth.TokenStorage
}

// loadEnv reads .env files and the environment. Flags win over LOG_LEVEL/LOG_FORMAT.
func loadEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	if err := config.Load(".env", filepath.Join(config.ConfigDir(), ".env")); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.FromEnv()

	level, format := cfg.LogLevel, cfg.LogFormat
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	if flags.logFormat != "" {
		format = flags.logFormat
	}
	log := logger.New(cmd.ErrOrStderr(), level, format)
	slog.SetDefault(log)

	return &env{
		cfg:     cfg,
		logger:  log,
		presets: preset.NewStore(cfg.ConfigDir),
		tokens:  oauth.NewTokenStorage(cfg.ConfigDir),
	}, nil
}

// startTracing initialises tracing for one command run.
func (e *env) startTracing(ctx context.Context) func() {
	shutdown, err := telemetry.Init(ctx, "clipfinder", currentVersion(), e.cfg.OTLPEndpoint)
	if err != nil {
		e.logger.Warn("tracing disabled", slog.String("error", err.Error()))
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			e.logger.Debug("tracing shutdown", slog.String("error", err.Error()))
		}
	}
}

// writeMetrics dumps the run's metrics when path is set.
func (e *env) writeMetrics(path string, reg *prometheus.Registry) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path, reg); err != nil {
		e.logger.Warn("failed to write metrics file", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	return reg
}

// newRootCmd creates the root command for clipfinder CLI.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "clipfinder",
		Short:        "Find the most viewed Twitch clips",
		Long:         "Clipfinder searches Twitch clips by category, channel and language and ranks them by views.",
		Version:      currentVersion(),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("clipfinder version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newSearchCmd(flags))
	rootCmd.AddCommand(newAuthCmd(flags))
	rootCmd.AddCommand(newPresetCmd(flags))
	rootCmd.AddCommand(newDownloadCmd(flags))
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show where clipfinder keeps its token and presets, and the effective settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), e)
			return nil
		},
	}

	return cmd
}

func printConfig(w io.Writer, e *env) {
	cfg := e.cfg
	fmt.Fprintf(w, "Config directory: %s\n", cfg.ConfigDir)
	fmt.Fprintf(w, "Presets file: %s\n", e.presets.Path())
	fmt.Fprintf(w, "Token file: %s\n", e.tokens.Path(tokenProvider))
	fmt.Fprintf(w, "API URL: %s\n", cfg.APIURL)
	fmt.Fprintf(w, "Client ID set: %t\n", cfg.ClientID != "")
	fmt.Fprintf(w, "Concurrency: search=%d thumbnails=%d downloads=%d\n",
		cfg.SearchConcurrency, cfg.ThumbnailConcurrency, cfg.DownloadConcurrency)
	fmt.Fprintf(w, "Request timeout: %s\n", cfg.RequestTimeout)
	if cfg.RedisURL != "" {
		fmt.Fprintln(w, "ID cache: redis")
	} else {
		fmt.Fprintln(w, "ID cache: memory")
	}
}
