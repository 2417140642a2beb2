package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"devtrend/internal/config"
	"devtrend/internal/storage"
)

// datasetCmd creates the "dataset" subcommand: it loads the most recent
// dataset file and prints a per-batch summary, decoding the list columns
// the same way downstream consumers must.
func datasetCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the most recently harvested dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				dir = cfg.Storage.OutputDir
			}

			path, err := storage.LatestDatasetPath(dir)
			if err != nil {
				return err
			}
			records, err := storage.LoadDataset(path)
			if err != nil {
				return err
			}

			type batch struct{ topic, period string }
			counts := make(map[batch]int)
			comments := 0
			undated := 0
			for _, rec := range records {
				counts[batch{rec.Topic, string(rec.Period)}]++
				comments += len(rec.Comments)
				if rec.Date == "" {
					undated++
				}
			}

			keys := make([]batch, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				if keys[i].topic != keys[j].topic {
					return keys[i].topic < keys[j].topic
				}
				return keys[i].period < keys[j].period
			})

			fmt.Printf("Dataset: %s\n", path)
			fmt.Printf("Records: %d (%d comments, %d without a date)\n\n", len(records), comments, undated)
			for _, k := range keys {
				fmt.Printf("  %-20s %-6s %d\n", k.topic, k.period, counts[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "dataset directory (defaults to storage.output_dir)")

	return cmd
}
