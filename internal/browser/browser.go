// Package browser abstracts the navigable, scriptable, DOM-queryable
// browsing surface the harvesting pipeline runs against. The core depends
// only on these interfaces; the rod adapter and the deterministic fake
// both live behind them.
package browser

import (
	"context"
	"time"
)

// Element is an opaque handle to one matched node on a loaded page. A
// handle is valid only while its owning page stays on the document it was
// queried from; navigating away or closing the page invalidates it.
type Element interface {
	// HTML returns the element's outer markup.
	HTML() (string, error)
}

// Page is a single browsing surface within a session.
type Page interface {
	// Navigate loads the URL, failing with *types.NavigationError when the
	// page does not load within the timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitIdle waits for network/DOM activity to settle. It is best-effort:
	// a timeout is returned but callers treat it as non-fatal.
	WaitIdle(timeout time.Duration) error

	// Eval runs a JavaScript function in the page context.
	Eval(js string) error

	// Elements returns all nodes matching the selector, in document order.
	Elements(selector string) ([]Element, error)

	// WaitVisible waits for the selector to appear, bounded by the timeout.
	// Best-effort: absence is not fatal.
	WaitVisible(selector string, timeout time.Duration) error

	Close() error
}

// Session is an isolated browsing identity: its own cookies and
// user-agent, sharing one underlying browser process with its siblings.
type Session interface {
	NewPage() (Page, error)
	UserAgent() string
	Close() error
}

// Browser creates isolated sessions over one shared browser process.
type Browser interface {
	NewSession(userAgent string) (Session, error)
	Close() error
}
