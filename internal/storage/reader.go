package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"devtrend/internal/types"
)

// LatestDatasetPath returns the most recently produced CSV dataset in the
// directory. Filenames carry a sortable timestamp suffix, so the
// lexicographically greatest name is the newest.
func LatestDatasetPath(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, datasetPrefix+"*.csv"))
	if err != nil {
		return "", fmt.Errorf("scan dataset dir: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", types.ErrNoDataset, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// LoadDataset decodes one CSV dataset file back into records, inverting
// the sink's row format including the encoded tags and comments lists.
func LoadDataset(path string) ([]types.EnrichedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range csvColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("dataset %s is missing column %q", path, name)
		}
	}

	records := make([]types.EnrichedRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := decodeRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadLatestDataset loads the newest dataset file in the directory.
func LoadLatestDataset(dir string) ([]types.EnrichedRecord, error) {
	path, err := LatestDatasetPath(dir)
	if err != nil {
		return nil, err
	}
	return LoadDataset(path)
}

func decodeRow(row []string, col map[string]int) (types.EnrichedRecord, error) {
	var rec types.EnrichedRecord
	var err error

	rec.Date = row[col["date"]]
	rec.Title = row[col["title"]]
	rec.DetailURL = row[col["url"]]
	rec.Topic = row[col["topic"]]
	rec.Period = types.TrendingPeriod(row[col["trending_period"]])

	if rec.ReadTimeMinutes, err = strconv.Atoi(row[col["read_time"]]); err != nil {
		return rec, fmt.Errorf("read_time: %w", err)
	}
	if rec.ReactionCount, err = strconv.Atoi(row[col["reactions_count"]]); err != nil {
		return rec, fmt.Errorf("reactions_count: %w", err)
	}
	if rec.CommentsCount, err = strconv.Atoi(row[col["comments_count"]]); err != nil {
		return rec, fmt.Errorf("comments_count: %w", err)
	}
	if rec.Rank, err = strconv.Atoi(row[col["rank"]]); err != nil {
		return rec, fmt.Errorf("rank: %w", err)
	}
	if rec.Tags, err = DecodeList(row[col["tags"]]); err != nil {
		return rec, err
	}
	if rec.Comments, err = DecodeList(row[col["comments"]]); err != nil {
		return rec, err
	}
	return rec, nil
}
