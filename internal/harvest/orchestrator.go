package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"

	"devtrend/internal/browser"
	"devtrend/internal/config"
	"devtrend/internal/types"
)

// phase names one step of a request's strictly sequential harvest.
type phase string

const (
	phaseIdle              phase = "idle"
	phaseListingLoaded     phase = "listing_loaded"
	phaseMetadataExtracted phase = "metadata_extracted"
	phaseDeduplicated      phase = "deduplicated"
	phaseDetailEnriched    phase = "detail_enriched"
	phaseComplete          phase = "complete"
)

// Stats tracks run counters.
type Stats struct {
	ItemsListed       atomic.Int64
	ItemsExtracted    atomic.Int64
	ItemsSkipped      atomic.Int64
	DuplicatesDropped atomic.Int64
	DetailFailures    atomic.Int64
	RecordsHarvested  atomic.Int64
}

// Snapshot returns a copy of the counters safe for logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"items_listed":       s.ItemsListed.Load(),
		"items_extracted":    s.ItemsExtracted.Load(),
		"items_skipped":      s.ItemsSkipped.Load(),
		"duplicates_dropped": s.DuplicatesDropped.Load(),
		"detail_failures":    s.DetailFailures.Load(),
		"records_harvested":  s.RecordsHarvested.Load(),
	}
}

// Orchestrator composes listing collection, metadata extraction, dedup,
// identity rotation and detail enrichment across a set of scrape
// requests. Requests are processed sequentially by a single logical
// worker; items are processed in deduplicated listing order and rank
// assignment is never reordered by rotation or retry.
type Orchestrator struct {
	cfg       *config.Config
	pool      *browser.Pool
	collector *ListingCollector
	extractor *Extractor
	fetcher   *DetailFetcher
	limiter   *rate.Limiter
	logger    *slog.Logger

	stats Stats
}

// New wires an Orchestrator from configuration and a browser. The pool,
// collector, extractor and fetcher it builds share the same pacing policy.
func New(cfg *config.Config, b browser.Browser, logger *slog.Logger) *Orchestrator {
	pacer := NewRandomPacer(cfg.Pacing.ScrollWaitMin, cfg.Pacing.ScrollWaitMax)
	return NewWithPacer(cfg, b, pacer, logger)
}

// NewWithPacer is New with an injected pacing policy; tests pass NopPacer.
func NewWithPacer(cfg *config.Config, b browser.Browser, pacer Pacer, logger *slog.Logger) *Orchestrator {
	collector := NewListingCollector(pacer, logger)
	collector.MaxScrollAttempts = cfg.Harvest.MaxScrollAttempts

	return &Orchestrator{
		cfg:       cfg,
		pool:      browser.NewPool(b, cfg.Session.UserAgents, cfg.Session.RotateEvery, logger),
		collector: collector,
		extractor: NewExtractor(cfg.Harvest.BaseURL, logger),
		fetcher: NewDetailFetcher(
			cfg.Browser.NavTimeout,
			cfg.Browser.IdleTimeout,
			cfg.Browser.SelectorTimeout,
			pacer,
			logger,
		),
		limiter: rate.NewLimiter(rate.Limit(cfg.Harvest.RatePerSecond), 1),
		logger:  logger.With("component", "orchestrator"),
	}
}

// Stats returns the run counters.
func (o *Orchestrator) Stats() *Stats { return &o.stats }

// Run harvests every request in turn and returns the accumulated records.
// The seen-URL set spans the whole run, so a detail URL surfacing under
// two (topic, period) pairs is kept only the first time. Failure to
// acquire a listing page is run-fatal; per-item failures are not. All
// sessions opened during the run are retired before Run returns.
func (o *Orchestrator) Run(ctx context.Context, requests []types.ScrapeRequest) ([]types.EnrichedRecord, error) {
	defer func() {
		if err := o.pool.Close(); err != nil {
			o.logger.Warn("session pool close failed", "error", err)
		}
	}()

	seen := NewDeduplicator()
	processed := 0

	var out []types.EnrichedRecord
	for _, req := range requests {
		if req.TopN < 1 {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidRequest, req)
		}
		records, err := o.harvest(ctx, req, seen, &processed)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}

	o.stats.RecordsHarvested.Add(int64(len(out)))
	o.logger.Info("run complete", "requests", len(requests), "stats", o.stats.Snapshot())
	return out, nil
}

// harvest runs the phase sequence for one request.
func (o *Orchestrator) harvest(ctx context.Context, req types.ScrapeRequest, seen *Deduplicator, processed *int) ([]types.EnrichedRecord, error) {
	logger := o.logger.With("topic", req.Topic, "period", req.Period)
	url := o.listingURL(req)

	logger.Info("harvest starting", "url", url, "top_n", req.TopN, "phase", phaseIdle)

	items, metas, err := o.collectMetadata(ctx, req, url, logger, processed)
	if err != nil {
		return nil, err
	}
	o.stats.ItemsListed.Add(int64(items))
	o.stats.ItemsExtracted.Add(int64(len(metas)))

	deduped := make([]types.ArticleMetadata, 0, len(metas))
	for _, m := range metas {
		if m.DetailURL != "" {
			if seen.Seen(m.DetailURL) {
				o.stats.DuplicatesDropped.Add(1)
				logger.Debug("duplicate dropped", "url", m.DetailURL)
				continue
			}
			seen.Mark(m.DetailURL)
		}
		deduped = append(deduped, m)
	}
	logger.Debug("phase transition", "phase", phaseDeduplicated, "kept", len(deduped))

	records := make([]types.EnrichedRecord, 0, len(deduped))
	for i, meta := range deduped {
		session, err := o.pool.SessionFor(*processed)
		if err != nil {
			return nil, fmt.Errorf("rotate session: %w", err)
		}
		*processed++

		comments := []string{}
		if meta.DetailURL != "" {
			if err := o.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			got, err := o.fetcher.FetchComments(ctx, session, meta.DetailURL, o.cfg.Harvest.MaxRetries)
			if err != nil {
				o.stats.DetailFailures.Add(1)
				itemErr := &types.ItemError{URL: meta.DetailURL, Position: i + 1, Stage: "detail", Err: err}
				logger.Warn("detail enrichment failed, keeping record without comments", "error", itemErr)
			}
			if got != nil {
				comments = got
			}
		}

		records = append(records, types.EnrichedRecord{
			ArticleMetadata: meta,
			Rank:            i + 1,
			Topic:           req.Topic,
			Period:          req.Period,
			Comments:        comments,
		})
	}
	logger.Debug("phase transition", "phase", phaseDetailEnriched)

	logger.Info("harvest complete", "records", len(records), "phase", phaseComplete)
	return records, nil
}

// collectMetadata loads the listing, scrolls it out and extracts metadata
// from every raw item while the handles are still valid. The listing page
// is closed before returning, invalidating the handles.
func (o *Orchestrator) collectMetadata(ctx context.Context, req types.ScrapeRequest, url string, logger *slog.Logger, processed *int) (int, []types.ArticleMetadata, error) {
	session, err := o.pool.SessionFor(*processed)
	if err != nil {
		return 0, nil, fmt.Errorf("acquire session: %w", err)
	}

	page, err := session.NewPage()
	if err != nil {
		return 0, nil, fmt.Errorf("open listing page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Warn("listing page close failed", "error", cerr)
		}
	}()

	// Listing acquisition is the one run-fatal navigation.
	if err := page.Navigate(ctx, url, o.cfg.Browser.NavTimeout); err != nil {
		return 0, nil, fmt.Errorf("load listing: %w", err)
	}
	if err := page.WaitIdle(o.cfg.Browser.IdleTimeout); err != nil {
		logger.Debug("listing idle timeout, proceeding", "error", err)
	}
	logger.Debug("phase transition", "phase", phaseListingLoaded)

	items, err := o.collector.Collect(ctx, page, req.TopN, o.cfg.Harvest.ListingSelector)
	if err != nil {
		return 0, nil, fmt.Errorf("collect listing items: %w", err)
	}

	metas := make([]types.ArticleMetadata, 0, len(items))
	for i, item := range items {
		meta, err := o.extractor.Extract(item)
		if err != nil {
			o.stats.ItemsSkipped.Add(1)
			itemErr := &types.ItemError{Position: i + 1, Stage: "extract", Err: err}
			logger.Warn("item skipped", "error", itemErr)
			continue
		}
		metas = append(metas, meta)
	}
	logger.Debug("phase transition", "phase", phaseMetadataExtracted, "extracted", len(metas))

	return len(items), metas, nil
}

// listingURL builds the ranked listing URL for a request.
func (o *Orchestrator) listingURL(req types.ScrapeRequest) string {
	url := o.extractor.BaseURL
	if req.Topic != types.TopicAll && req.Topic != "" {
		url += "/t/" + req.Topic
	}
	return url + "/top/" + string(req.Period)
}
