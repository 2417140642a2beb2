package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"devtrend/internal/browser"
	"devtrend/internal/config"
	"devtrend/internal/harvest"
	"devtrend/internal/storage"
	"devtrend/internal/types"
)

var (
	topics      string
	periods     string
	topN        int
	outputDir   string
	outputType  string
	rotateEvery int
	maxRetries  int
)

// harvestCmd creates the "harvest" subcommand.
func harvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest trending articles and their comments",
		Long:  "Harvest the top articles for every configured (topic, period) pair and persist the enriched records.",
		RunE:  runHarvest,
	}

	cmd.Flags().StringVarP(&topics, "topics", "t", "", "comma-separated topic tags (\"all\" for no filter)")
	cmd.Flags().StringVarP(&periods, "periods", "p", "", "comma-separated trending periods: day, week, month, year")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "articles to harvest per (topic, period) pair")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for dataset files")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: csv, jsonl, mongodb")
	cmd.Flags().IntVar(&rotateEvery, "rotate-every", 0, "items processed per browsing identity")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "attempts per detail page")

	return cmd
}

// runHarvest executes the harvest command.
func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(&cfg.Logging)

	requests := make([]types.ScrapeRequest, 0, len(cfg.Harvest.Topics)*len(cfg.Harvest.Periods))
	for _, topic := range cfg.Harvest.Topics {
		for _, p := range cfg.Harvest.Periods {
			period, err := types.ParsePeriod(p)
			if err != nil {
				return err
			}
			requests = append(requests, types.ScrapeRequest{
				Topic:  topic,
				Period: period,
				TopN:   cfg.Harvest.TopN,
			})
		}
	}

	logger.Info("starting harvest",
		"requests", len(requests),
		"top_n", cfg.Harvest.TopN,
		"output", cfg.Storage.OutputDir,
		"format", cfg.Storage.Type,
	)

	b, err := browser.NewRodBrowser(&cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("create browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Error("browser close error", "error", err)
		}
	}()

	store, err := storage.NewStorage(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	orch := harvest.New(cfg, b, logger)
	records, err := orch.Run(ctx, requests)
	if err != nil {
		return fmt.Errorf("harvest run: %w", err)
	}

	if err := store.Store(records); err != nil {
		return fmt.Errorf("store records: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}

	elapsed := time.Since(start)
	stats := orch.Stats().Snapshot()

	logger.Info("harvest finished",
		"elapsed", elapsed,
		"records", len(records),
		"duplicates_dropped", stats["duplicates_dropped"],
		"detail_failures", stats["detail_failures"],
	)

	fmt.Printf("\nHarvest complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Records:    %d harvested\n", len(records))
	fmt.Printf("   Duplicates: %v dropped\n", stats["duplicates_dropped"])
	fmt.Printf("   Failures:   %v items skipped, %v detail fetches exhausted\n",
		stats["items_skipped"], stats["detail_failures"])
	fmt.Printf("   Output:     %s (%s)\n", cfg.Storage.OutputDir, cfg.Storage.Type)

	return nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if topics != "" {
		cfg.Harvest.Topics = splitList(topics)
	}
	if periods != "" {
		cfg.Harvest.Periods = splitList(periods)
	}
	if topN > 0 {
		cfg.Harvest.TopN = topN
	}
	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if rotateEvery > 0 {
		cfg.Session.RotateEvery = rotateEvery
	}
	if maxRetries > 0 {
		cfg.Harvest.MaxRetries = maxRetries
	}
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
