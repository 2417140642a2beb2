package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"devtrend/internal/types"
)

// datasetPrefix and timestampLayout shape the collision-free filenames the
// CSV sink produces: devto_top_20060102T150405.csv. The layout sorts
// lexicographically, which the reader relies on to find the latest file.
const (
	datasetPrefix   = "devto_top_"
	timestampLayout = "20060102T150405"
)

// csvColumns is the fixed header; tags and comments cells hold encoded
// list literals.
var csvColumns = []string{
	"date", "title", "url", "read_time", "tags",
	"reactions_count", "comments_count",
	"rank", "topic", "trending_period", "comments",
}

// CSVStorage writes records as rows of a timestamp-suffixed CSV file.
type CSVStorage struct {
	path   string
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates the output directory if needed and opens a fresh
// timestamp-named file inside it.
func NewCSVStorage(outputDir string, logger *slog.Logger) (*CSVStorage, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	name := datasetPrefix + time.Now().Format(timestampLayout) + ".csv"
	path := filepath.Join(outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write CSV header: %w", err)
	}

	return &CSVStorage{
		path:   path,
		file:   f,
		writer: w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

// Path returns the file this sink writes to.
func (s *CSVStorage) Path() string { return s.path }

func (s *CSVStorage) Store(records []types.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if err := s.writer.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
		s.count++
	}

	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVStorage) Close() error {
	s.logger.Info("CSV written", "path", s.path, "records", s.count)
	if s.writer != nil {
		s.writer.Flush()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// recordRow flattens one record in csvColumns order.
func recordRow(rec types.EnrichedRecord) []string {
	return []string{
		rec.Date,
		rec.Title,
		rec.DetailURL,
		strconv.Itoa(rec.ReadTimeMinutes),
		EncodeList(rec.Tags),
		strconv.Itoa(rec.ReactionCount),
		strconv.Itoa(rec.CommentsCount),
		strconv.Itoa(rec.Rank),
		rec.Topic,
		string(rec.Period),
		EncodeList(rec.Comments),
	}
}
