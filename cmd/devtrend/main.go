package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"devtrend/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devtrend",
		Short: "Trending DEV.to article harvester",
		Long: `devtrend harvests ranked trending articles from DEV.to and enriches
each one with its discussion comments.

Features:
  • Scroll-driven pagination of the JavaScript-rendered listing
  • Per-item metadata extraction with sentinel-tolerant parsing
  • Detail-URL deduplication across the whole run
  • Browsing-identity rotation to spread load across sessions
  • Bounded retry of per-item detail fetches
  • CSV, JSONL and MongoDB sinks`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(harvestCmd())
	rootCmd.AddCommand(datasetCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("devtrend %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Harvest:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Harvest.BaseURL)
			fmt.Printf("  Topics:            %v\n", cfg.Harvest.Topics)
			fmt.Printf("  Periods:           %v\n", cfg.Harvest.Periods)
			fmt.Printf("  Top N:             %d\n", cfg.Harvest.TopN)
			fmt.Printf("  Max Scrolls:       %d\n", cfg.Harvest.MaxScrollAttempts)
			fmt.Printf("  Max Retries:       %d\n", cfg.Harvest.MaxRetries)
			fmt.Printf("  Rate (req/s):      %g\n", cfg.Harvest.RatePerSecond)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Nav Timeout:       %s\n", cfg.Browser.NavTimeout)
			fmt.Printf("  Idle Timeout:      %s\n", cfg.Browser.IdleTimeout)
			fmt.Printf("\nSession:\n")
			fmt.Printf("  Rotate Every:      %d items\n", cfg.Session.RotateEvery)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Session.UserAgents))
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Dir:        %s\n", cfg.Storage.OutputDir)
			return nil
		},
	}
}

// setupLogger creates a structured logger from config, with the verbose
// flag forcing debug level.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
