package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for devtrend.
type Config struct {
	Harvest HarvestConfig `mapstructure:"harvest" yaml:"harvest"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Pacing  PacingConfig  `mapstructure:"pacing"  yaml:"pacing"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// HarvestConfig controls the harvesting pipeline.
type HarvestConfig struct {
	BaseURL           string   `mapstructure:"base_url"            yaml:"base_url"`
	Topics            []string `mapstructure:"topics"              yaml:"topics"`
	Periods           []string `mapstructure:"periods"             yaml:"periods"`
	TopN              int      `mapstructure:"top_n"               yaml:"top_n"`
	ListingSelector   string   `mapstructure:"listing_selector"    yaml:"listing_selector"`
	MaxScrollAttempts int      `mapstructure:"max_scroll_attempts" yaml:"max_scroll_attempts"`
	MaxRetries        int      `mapstructure:"max_retries"         yaml:"max_retries"`
	RatePerSecond     float64  `mapstructure:"rate_per_second"     yaml:"rate_per_second"`
}

// BrowserConfig controls the rendering engine.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"         yaml:"headless"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
	NavTimeout      time.Duration `mapstructure:"nav_timeout"      yaml:"nav_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     yaml:"idle_timeout"`
	SelectorTimeout time.Duration `mapstructure:"selector_timeout" yaml:"selector_timeout"`
}

// SessionConfig controls identity rotation.
type SessionConfig struct {
	RotateEvery int      `mapstructure:"rotate_every" yaml:"rotate_every"`
	UserAgents  []string `mapstructure:"user_agents"  yaml:"user_agents"`
}

// PacingConfig bounds the randomized wait between scroll rounds.
type PacingConfig struct {
	ScrollWaitMin time.Duration `mapstructure:"scroll_wait_min" yaml:"scroll_wait_min"`
	ScrollWaitMax time.Duration `mapstructure:"scroll_wait_max" yaml:"scroll_wait_max"`
}

// StorageConfig controls the record sink.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputDir       string `mapstructure:"output_dir"       yaml:"output_dir"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Harvest: HarvestConfig{
			BaseURL:           "https://dev.to",
			Topics:            []string{"all"},
			Periods:           []string{"week"},
			TopN:              10,
			ListingSelector:   "article.crayons-story",
			MaxScrollAttempts: 20,
			MaxRetries:        3,
			RatePerSecond:     1,
		},
		Browser: BrowserConfig{
			Headless:        true,
			Stealth:         true,
			NavTimeout:      60 * time.Second,
			IdleTimeout:     10 * time.Second,
			SelectorTimeout: 5 * time.Second,
		},
		Session: SessionConfig{
			RotateEvery: 20,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Pacing: PacingConfig{
			ScrollWaitMin: 800 * time.Millisecond,
			ScrollWaitMax: 1500 * time.Millisecond,
		},
		Storage: StorageConfig{
			Type:      "csv",
			OutputDir: "./dataset",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
