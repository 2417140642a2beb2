package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"devtrend/internal/browser"
)

// scrollToBottomJS triggers the listing's lazy loader.
const scrollToBottomJS = `() => window.scrollTo(0, document.body.scrollHeight)`

// DefaultMaxScrollAttempts bounds how often the collector scrolls before
// accepting a partial listing.
const DefaultMaxScrollAttempts = 20

// ListingCollector drives scroll-triggered pagination on a listing page
// until at least targetCount items are visible or the scroll ceiling is
// hit.
type ListingCollector struct {
	MaxScrollAttempts int
	pacer             Pacer
	logger            *slog.Logger
}

// NewListingCollector creates a collector with the default scroll ceiling.
func NewListingCollector(pacer Pacer, logger *slog.Logger) *ListingCollector {
	return &ListingCollector{
		MaxScrollAttempts: DefaultMaxScrollAttempts,
		pacer:             pacer,
		logger:            logger.With("component", "listing_collector"),
	}
}

// Collect returns at most targetCount item handles in DOM order. Hitting
// the scroll ceiling first yields a partial result, not an error; when
// the page reveals more than targetCount, the result is truncated to
// exactly targetCount. The returned handles stay valid only until the
// page navigates away or closes.
func (c *ListingCollector) Collect(ctx context.Context, page browser.Page, targetCount int, selector string) ([]browser.Element, error) {
	items, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query listing items: %w", err)
	}

	attempts := 0
	for len(items) < targetCount && attempts < c.MaxScrollAttempts {
		if err := page.Eval(scrollToBottomJS); err != nil {
			return nil, fmt.Errorf("scroll listing: %w", err)
		}
		if err := c.pause(ctx); err != nil {
			return nil, err
		}
		items, err = page.Elements(selector)
		if err != nil {
			return nil, fmt.Errorf("query listing items: %w", err)
		}
		attempts++
		c.logger.Debug("listing scrolled", "visible", len(items), "attempts", attempts)
	}

	if len(items) < targetCount {
		c.logger.Warn("scroll ceiling reached with partial listing",
			"visible", len(items),
			"target", targetCount,
		)
	}
	if len(items) > targetCount {
		items = items[:targetCount]
	}
	return items, nil
}

// pause waits out the randomized scroll delay, honoring cancellation.
func (c *ListingCollector) pause(ctx context.Context) error {
	d := c.pacer.ScrollDelay()
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
