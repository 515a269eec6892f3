package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/webnotify/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	logger     *slog.Logger
	globalOpts struct {
		verbose    bool
		configPath string
	}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "webnotify",
	Short: "Desktop notification pipeline for scripted callers",
	Long: `webnotify validates notification requests, runs the replace/append
show algorithm, and hands the result to the platform notification
service (org.freedesktop.Notifications on Linux).

Use "send" for a one-shot notification or "feed" to stream JSON lines
from stdin through the same pipeline.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// --verbose wins over the configured level
		if !globalOpts.verbose {
			level, err := cfg.Log.SlogLevel()
			if err != nil {
				return err
			}
			setLoggerLevel(level)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Config file path (default: $XDG_CONFIG_HOME/webnotify/config.toml)")
}

var logLevel = new(slog.LevelVar)

// setupLogger configures the global slog logger.
func setupLogger() {
	if globalOpts.verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func setLoggerLevel(level slog.Level) {
	logLevel.Set(level)
}
