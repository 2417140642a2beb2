package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"devtrend/internal/browser"
	"devtrend/internal/types"
)

// Detail page selectors: the comments container (CSS, used against the
// live page) and the comment bodies inside it (XPath, used against the
// captured container markup).
const (
	selCommentsContainer = "#comments"
	commentBodyXPath     = `//div[contains(@class, "comment__body")]`
)

// retryState is the explicit attempt-loop state of one detail fetch.
type retryState int

const (
	retryPending retryState = iota
	retryAttempting
	retryExhausted
)

// DetailFetcher navigates to an item's detail page and extracts the
// discussion thread, retrying failed attempts a bounded number of times.
type DetailFetcher struct {
	NavTimeout        time.Duration
	IdleTimeout       time.Duration
	SelectorTimeout   time.Duration
	ContainerSelector string

	pacer  Pacer
	logger *slog.Logger
}

// NewDetailFetcher creates a fetcher with the given operation timeouts.
func NewDetailFetcher(nav, idle, selector time.Duration, pacer Pacer, logger *slog.Logger) *DetailFetcher {
	return &DetailFetcher{
		NavTimeout:        nav,
		IdleTimeout:       idle,
		SelectorTimeout:   selector,
		ContainerSelector: selCommentsContainer,
		pacer:             pacer,
		logger:            logger.With("component", "detail_fetcher"),
	}
}

// FetchComments retrieves the comment thread for one detail page under the
// given session, in document order. Failed attempts are retried up to
// maxAttempts; exhaustion means exactly maxAttempts consecutive failures.
// On exhaustion the empty slice is returned together with the last error,
// which callers treat as a per-item failure, never a batch failure.
func (f *DetailFetcher) FetchComments(ctx context.Context, session browser.Session, url string, maxAttempts int) ([]string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		state   = retryPending
		attempt int
		lastErr error
	)
	for {
		switch state {
		case retryPending:
			state = retryAttempting

		case retryAttempting:
			attempt++
			comments, err := f.attempt(ctx, session, url)
			if err == nil {
				return comments, nil
			}
			lastErr = err
			f.logger.Warn("detail attempt failed",
				"url", url,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
			if attempt >= maxAttempts {
				state = retryExhausted
				continue
			}
			if err := f.pause(ctx, attempt); err != nil {
				return []string{}, err
			}

		case retryExhausted:
			return []string{}, fmt.Errorf("fetch comments for %s: %w (%d attempts, last: %v)",
				url, types.ErrMaxRetries, attempt, lastErr)
		}
	}
}

// attempt runs one full detail-page pass. The page opened for the attempt
// is closed exactly once, on every exit path.
func (f *DetailFetcher) attempt(ctx context.Context, session browser.Session, url string) ([]string, error) {
	page, err := session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open detail page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			f.logger.Warn("detail page close failed", "url", url, "error", cerr)
		}
	}()

	if err := page.Navigate(ctx, url, f.NavTimeout); err != nil {
		return nil, err
	}

	// Best-effort: a slow third-party resource must not fail the attempt.
	if err := page.WaitIdle(f.IdleTimeout); err != nil {
		f.logger.Debug("network idle timeout, proceeding", "url", url, "error", err)
	}

	// One scroll surfaces lazily-loaded discussion content.
	if err := page.Eval(scrollToBottomJS); err != nil {
		f.logger.Debug("detail scroll failed, proceeding", "url", url, "error", err)
	}

	// An absent container means an empty thread, not a failed attempt.
	if err := page.WaitVisible(f.ContainerSelector, f.SelectorTimeout); err != nil {
		f.logger.Debug("comments container absent", "url", url)
		return []string{}, nil
	}

	containers, err := page.Elements(f.ContainerSelector)
	if err != nil {
		return nil, fmt.Errorf("query comments container: %w", err)
	}
	if len(containers) == 0 {
		return []string{}, nil
	}
	markup, err := containers[0].HTML()
	if err != nil {
		return nil, fmt.Errorf("read comments container: %w", err)
	}
	return parseComments(markup)
}

// pause waits out the retry delay for the given attempt number.
func (f *DetailFetcher) pause(ctx context.Context, attempt int) error {
	d := f.pacer.RetryDelay(attempt)
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

// parseComments collects the text of every comment body inside the
// container markup, in document order.
func parseComments(markup string) ([]string, error) {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse comments container: %w", err)
	}

	nodes := htmlquery.Find(doc, commentBodyXPath)
	comments := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if text := nodeText(n); text != "" {
			comments = append(comments, text)
		}
	}
	return comments, nil
}

// nodeText flattens a node's text content with collapsed whitespace.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(nd *html.Node) {
		if nd.Type == html.TextNode {
			b.WriteString(nd.Data)
			b.WriteByte(' ')
		}
		for c := nd.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
