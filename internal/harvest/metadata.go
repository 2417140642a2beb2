package harvest

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"devtrend/internal/browser"
	"devtrend/internal/types"
)

// Listing item selectors for the crayons story layout.
const (
	selTitleLink = "h3.crayons-story__title a"
	selDate      = "time"
	selTags      = "a.crayons-tag"
	selReadTime  = "small.crayons-story__tertiary"
	selReactions = "span.aggregate_reactions_counter"
	selComments  = "a.crayons-btn--ghost"
)

// Extractor parses the fixed metadata field set out of one listing item.
type Extractor struct {
	// BaseURL is the site origin used to absolutize relative detail links.
	BaseURL string

	// Now supplies the clock for date shapes that omit the year.
	Now func() time.Time

	logger *slog.Logger
}

// NewExtractor creates an Extractor rooted at the given site origin.
func NewExtractor(baseURL string, logger *slog.Logger) *Extractor {
	return &Extractor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Now:     time.Now,
		logger:  logger.With("component", "metadata_extractor"),
	}
}

// Extract reads every metadata field out of the item handle. Missing
// sub-elements never fail the record: each field lookup is guarded
// independently and falls back to its sentinel (empty string, -1 read
// time, zero counts, empty tag list). The only errors are an invalidated
// handle or unparseable markup.
func (e *Extractor) Extract(item browser.Element) (types.ArticleMetadata, error) {
	markup, err := item.HTML()
	if err != nil {
		return types.ArticleMetadata{}, fmt.Errorf("read item handle: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return types.ArticleMetadata{}, fmt.Errorf("parse item markup: %w", err)
	}

	meta := types.ArticleMetadata{
		ReadTimeMinutes: types.ReadTimeUnknown,
		Tags:            []string{},
	}

	if title := doc.Find(selTitleLink).First(); title.Length() > 0 {
		meta.Title = strings.TrimSpace(title.Text())
		if href, ok := title.Attr("href"); ok {
			meta.DetailURL = e.absoluteURL(strings.TrimSpace(href))
		}
	}

	if date := doc.Find(selDate).First(); date.Length() > 0 {
		if iso, ok := NormalizeDate(date.Text(), e.Now()); ok {
			meta.Date = iso
		} else {
			e.logger.Debug("unparseable date text", "text", strings.TrimSpace(date.Text()))
		}
	}

	doc.Find(selTags).Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			meta.Tags = append(meta.Tags, tag)
		}
	})

	if n, ok := firstInt(doc.Find(selReadTime).First().Text()); ok {
		meta.ReadTimeMinutes = n
	}
	if n, ok := firstInt(doc.Find(selReactions).First().Text()); ok {
		meta.ReactionCount = n
	}
	if n, ok := firstInt(doc.Find(selComments).First().Text()); ok {
		meta.CommentsCount = n
	}

	return meta, nil
}

// absoluteURL rewrites a site-relative path against the base origin.
func (e *Extractor) absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return e.BaseURL + href
	}
	return href
}

var intToken = regexp.MustCompile(`\d+`)

// firstInt extracts the first integer token from the text, reporting
// false when no digit token exists.
func firstInt(s string) (int, bool) {
	tok := intToken.FindString(s)
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

var trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

var dateLayouts = []string{
	"Jan 2 2006",
	"Jan 2, 2006",
	"Jan 2 '06",
}

// NormalizeDate parses the textual date shapes the listing uses and
// returns an ISO calendar date (YYYY-MM-DD). A trailing parenthetical age
// annotation ("Mar 18 (2 hours ago)") is stripped before parsing, and
// shapes lacking a year assume the current calendar year.
func NormalizeDate(raw string, now time.Time) (string, bool) {
	s := strings.TrimSpace(trailingParen.ReplaceAllString(raw, ""))
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	if t, err := time.Parse("Jan 2", s); err == nil {
		t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return t.Format("2006-01-02"), true
	}
	return "", false
}
