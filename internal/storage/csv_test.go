package storage

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"devtrend/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleRecords() []types.EnrichedRecord {
	return []types.EnrichedRecord{
		{
			ArticleMetadata: types.ArticleMetadata{
				Date:            "2025-04-01",
				Title:           "Understanding Goroutines",
				DetailURL:       "https://dev.to/alice/understanding-goroutines",
				ReadTimeMinutes: 7,
				Tags:            []string{"#go", "#concurrency"},
				ReactionCount:   215,
				CommentsCount:   18,
			},
			Rank:     1,
			Topic:    "go",
			Period:   types.PeriodWeek,
			Comments: []string{"Great writeup, thanks!", `comma, "quote" and` + "\nnewline"},
		},
		{
			ArticleMetadata: types.ArticleMetadata{
				Title:           "Untitled Draft",
				DetailURL:       "https://dev.to/bob/untitled-draft",
				ReadTimeMinutes: types.ReadTimeUnknown,
				Tags:            []string{},
			},
			Rank:     2,
			Topic:    "go",
			Period:   types.PeriodWeek,
			Comments: []string{},
		},
	}
}

// Records written by the CSV sink come back identical through the reader,
// including sentinel values and encoded list cells.
func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewCSVStorage(dir, testLogger)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	want := sampleRecords()
	if err := sink.Store(want); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := LoadDataset(sink.Path())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestLatestDatasetPath(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, datasetPrefix+"20240101T000000.csv")
	newer := filepath.Join(dir, datasetPrefix+"20250101T000000.csv")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("date\n"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}

	got, err := LatestDatasetPath(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != newer {
		t.Errorf("latest = %q, want %q", got, newer)
	}
}

func TestLatestDatasetPathEmptyDir(t *testing.T) {
	_, err := LatestDatasetPath(t.TempDir())
	if !errors.Is(err, types.ErrNoDataset) {
		t.Fatalf("error = %v, want ErrNoDataset", err)
	}
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, datasetPrefix+"20250101T000000.csv")
	if err := os.WriteFile(path, []byte("date,title\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := LoadDataset(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}
