package harvest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"devtrend/internal/browser"
)

func storyMarkup(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`<article class="crayons-story"><h3 class="crayons-story__title"><a href="/u/post-%d">Post %d</a></h3></article>`, i, i)
	}
	return items
}

// A page revealing three items per scroll reaches a target of ten after
// four scrolls, and the result is truncated to exactly ten in DOM order.
func TestCollectScrollsUntilTarget(t *testing.T) {
	page := &browser.FakePage{
		Items:           storyMarkup(30),
		Visible:         0,
		RevealPerScroll: 3,
	}
	c := NewListingCollector(NopPacer{}, testLogger)

	items, err := c.Collect(context.Background(), page, 10, "article.crayons-story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("got %d items, want 10", len(items))
	}
	if page.ScrollCalls != 4 {
		t.Errorf("scrolled %d times, want 4", page.ScrollCalls)
	}

	for i, item := range items {
		markup, err := item.HTML()
		if err != nil {
			t.Fatalf("item %d: %v", i, err)
		}
		if markup != page.Items[i] {
			t.Errorf("item %d out of DOM order", i)
		}
	}
}

// A listing that never reaches the target yields a partial result once the
// scroll ceiling is hit, not an error.
func TestCollectPartialAtCeiling(t *testing.T) {
	page := &browser.FakePage{
		Items:           storyMarkup(5),
		Visible:         0,
		RevealPerScroll: 1,
	}
	c := NewListingCollector(NopPacer{}, testLogger)

	items, err := c.Collect(context.Background(), page, 10, "article.crayons-story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("got %d items, want 5", len(items))
	}
	if page.ScrollCalls != DefaultMaxScrollAttempts {
		t.Errorf("scrolled %d times, want %d", page.ScrollCalls, DefaultMaxScrollAttempts)
	}
}

func TestCollectNoScrollWhenEnoughVisible(t *testing.T) {
	page := &browser.FakePage{
		Items:   storyMarkup(12),
		Visible: 12,
	}
	c := NewListingCollector(NopPacer{}, testLogger)

	items, err := c.Collect(context.Background(), page, 5, "article.crayons-story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("got %d items, want 5", len(items))
	}
	if page.ScrollCalls != 0 {
		t.Errorf("scrolled %d times, want 0", page.ScrollCalls)
	}
}

func TestCollectCanceledContext(t *testing.T) {
	page := &browser.FakePage{
		Items:           storyMarkup(30),
		Visible:         0,
		RevealPerScroll: 1,
	}
	c := NewListingCollector(NewRandomPacer(time.Millisecond, 2*time.Millisecond), testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Collect(ctx, page, 10, "article.crayons-story"); err == nil {
		t.Fatal("expected cancellation error")
	}
}
