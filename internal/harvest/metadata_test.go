package harvest

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"devtrend/internal/browser"
	"devtrend/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const fullItemHTML = `<article class="crayons-story">
	<time datetime="2025-04-01">Apr 1 2025</time>
	<h3 class="crayons-story__title"><a href="/alice/understanding-goroutines">Understanding Goroutines</a></h3>
	<a class="crayons-tag" href="/t/go">#go</a>
	<a class="crayons-tag" href="/t/concurrency">#concurrency</a>
	<span class="aggregate_reactions_counter">215 reactions</span>
	<a class="crayons-btn--ghost" href="/alice/understanding-goroutines#comments">18 comments</a>
	<small class="crayons-story__tertiary">7 min read</small>
</article>`

func TestExtractFullItem(t *testing.T) {
	e := NewExtractor("https://dev.to", testLogger)

	meta, err := e.Extract(&browser.FakeElement{Markup: fullItemHTML})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "Understanding Goroutines" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.DetailURL != "https://dev.to/alice/understanding-goroutines" {
		t.Errorf("detail URL = %q", meta.DetailURL)
	}
	if meta.Date != "2025-04-01" {
		t.Errorf("date = %q, want 2025-04-01", meta.Date)
	}
	if meta.ReadTimeMinutes != 7 {
		t.Errorf("read time = %d, want 7", meta.ReadTimeMinutes)
	}
	if meta.ReactionCount != 215 {
		t.Errorf("reactions = %d, want 215", meta.ReactionCount)
	}
	if meta.CommentsCount != 18 {
		t.Errorf("comments count = %d, want 18", meta.CommentsCount)
	}
	want := []string{"#go", "#concurrency"}
	if len(meta.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", meta.Tags, want)
	}
	for i := range want {
		if meta.Tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, meta.Tags[i], want[i])
		}
	}
}

// An item missing every optional field resolves each one to its sentinel
// instead of failing.
func TestExtractEmptyItem(t *testing.T) {
	e := NewExtractor("https://dev.to", testLogger)

	meta, err := e.Extract(&browser.FakeElement{Markup: `<article class="crayons-story"></article>`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Title != "" || meta.DetailURL != "" || meta.Date != "" {
		t.Errorf("string fields not at sentinel: %+v", meta)
	}
	if meta.ReadTimeMinutes != types.ReadTimeUnknown {
		t.Errorf("read time = %d, want %d", meta.ReadTimeMinutes, types.ReadTimeUnknown)
	}
	if meta.ReactionCount != 0 || meta.CommentsCount != 0 {
		t.Errorf("counts not at sentinel: %+v", meta)
	}
	if meta.Tags == nil || len(meta.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil slice", meta.Tags)
	}
}

func TestExtractInvalidatedHandle(t *testing.T) {
	e := NewExtractor("https://dev.to", testLogger)

	_, err := e.Extract(&browser.FakeElement{Err: errors.New("handle detached")})
	if err == nil {
		t.Fatal("expected error for invalidated handle")
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Apr 1 2025", "2025-04-01", true},
		{"Apr 1, 2025", "2025-04-01", true},
		{"Jul 1 '24", "2024-07-01", true},
		{"Mar 18", "2026-03-18", true},
		{"Mar 18 (2 hours ago)", "2026-03-18", true},
		{"Apr 1 2025 (yesterday)", "2025-04-01", true},
		{"  Dec 31 2024  ", "2024-12-31", true},
		{"", "", false},
		{"sometime last week", "", false},
		{"(2 hours ago)", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in, now)
		if ok != tt.ok {
			t.Errorf("NormalizeDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"7 min read", 7, true},
		{"215 reactions", 215, true},
		{"Add comment", 0, false},
		{"", 0, false},
		{"read in 12", 12, true},
	}

	for _, tt := range tests {
		got, ok := firstInt(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("firstInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	e := NewExtractor("https://dev.to/", testLogger)

	if got := e.absoluteURL("/alice/post"); got != "https://dev.to/alice/post" {
		t.Errorf("relative path = %q", got)
	}
	if got := e.absoluteURL("https://example.com/post"); got != "https://example.com/post" {
		t.Errorf("absolute URL rewritten to %q", got)
	}
}
