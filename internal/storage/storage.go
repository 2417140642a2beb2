package storage

import (
	"fmt"
	"log/slog"

	"devtrend/internal/config"
	"devtrend/internal/types"
)

// Storage is the interface for all record sinks.
type Storage interface {
	// Store persists a batch of records.
	Store(records []types.EnrichedRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the sink identifier.
	Name() string
}

// NewStorage creates the sink named by the configuration.
func NewStorage(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "csv":
		return NewCSVStorage(cfg.OutputDir, logger)
	case "jsonl":
		return NewJSONLStorage(cfg.OutputDir, logger)
	case "mongodb":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
