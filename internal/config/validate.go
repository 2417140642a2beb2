package config

import (
	"fmt"
	"net/url"

	"devtrend/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Harvest.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("harvest.base_url %q is not an absolute URL", cfg.Harvest.BaseURL)
	}
	if len(cfg.Harvest.Topics) == 0 {
		return fmt.Errorf("harvest.topics must name at least one topic (use %q for all)", types.TopicAll)
	}
	if len(cfg.Harvest.Periods) == 0 {
		return fmt.Errorf("harvest.periods must name at least one trending period")
	}
	for _, p := range cfg.Harvest.Periods {
		if _, err := types.ParsePeriod(p); err != nil {
			return err
		}
	}
	if cfg.Harvest.TopN < 1 {
		return fmt.Errorf("harvest.top_n must be >= 1, got %d", cfg.Harvest.TopN)
	}
	if cfg.Harvest.ListingSelector == "" {
		return fmt.Errorf("harvest.listing_selector must not be empty")
	}
	if cfg.Harvest.MaxScrollAttempts < 1 {
		return fmt.Errorf("harvest.max_scroll_attempts must be >= 1, got %d", cfg.Harvest.MaxScrollAttempts)
	}
	if cfg.Harvest.MaxRetries < 1 {
		return fmt.Errorf("harvest.max_retries must be >= 1, got %d", cfg.Harvest.MaxRetries)
	}
	if cfg.Harvest.RatePerSecond <= 0 {
		return fmt.Errorf("harvest.rate_per_second must be > 0")
	}

	if cfg.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be > 0")
	}
	if cfg.Browser.IdleTimeout <= 0 {
		return fmt.Errorf("browser.idle_timeout must be > 0")
	}
	if cfg.Browser.SelectorTimeout <= 0 {
		return fmt.Errorf("browser.selector_timeout must be > 0")
	}

	if cfg.Session.RotateEvery < 1 {
		return fmt.Errorf("session.rotate_every must be >= 1, got %d", cfg.Session.RotateEvery)
	}
	if len(cfg.Session.UserAgents) == 0 {
		return fmt.Errorf("session.user_agents must hold at least one identity string")
	}

	if cfg.Pacing.ScrollWaitMin < 0 {
		return fmt.Errorf("pacing.scroll_wait_min must be >= 0")
	}
	if cfg.Pacing.ScrollWaitMax < cfg.Pacing.ScrollWaitMin {
		return fmt.Errorf("pacing.scroll_wait_max must be >= pacing.scroll_wait_min")
	}

	validStorageTypes := map[string]bool{
		"csv": true, "jsonl": true, "mongodb": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: csv, jsonl, mongodb)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongodb" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.mongo_uri is required for the mongodb sink")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}
