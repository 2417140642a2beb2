package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("DEVTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("devtrend")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".devtrend"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("harvest.base_url", cfg.Harvest.BaseURL)
	v.SetDefault("harvest.topics", cfg.Harvest.Topics)
	v.SetDefault("harvest.periods", cfg.Harvest.Periods)
	v.SetDefault("harvest.top_n", cfg.Harvest.TopN)
	v.SetDefault("harvest.listing_selector", cfg.Harvest.ListingSelector)
	v.SetDefault("harvest.max_scroll_attempts", cfg.Harvest.MaxScrollAttempts)
	v.SetDefault("harvest.max_retries", cfg.Harvest.MaxRetries)
	v.SetDefault("harvest.rate_per_second", cfg.Harvest.RatePerSecond)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.nav_timeout", cfg.Browser.NavTimeout)
	v.SetDefault("browser.idle_timeout", cfg.Browser.IdleTimeout)
	v.SetDefault("browser.selector_timeout", cfg.Browser.SelectorTimeout)

	v.SetDefault("session.rotate_every", cfg.Session.RotateEvery)
	v.SetDefault("session.user_agents", cfg.Session.UserAgents)

	v.SetDefault("pacing.scroll_wait_min", cfg.Pacing.ScrollWaitMin)
	v.SetDefault("pacing.scroll_wait_max", cfg.Pacing.ScrollWaitMax)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_dir", cfg.Storage.OutputDir)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
