package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrMaxRetries     = errors.New("max retries exceeded")
	ErrNoUserAgents   = errors.New("identity pool is empty")
	ErrSessionClosed  = errors.New("browsing session is closed")
	ErrNoDataset      = errors.New("no dataset file found")
	ErrInvalidRequest = errors.New("invalid scrape request")
)

// NavigationError reports a page that failed to load within its timeout.
// It is fatal to the current attempt; whether it is retried depends on the
// caller's retry policy.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ItemError identifies a single listing item that could not be processed
// end to end. It never aborts the batch; the orchestrator logs it and
// either skips the item or keeps it partially filled.
type ItemError struct {
	URL      string
	Position int
	Stage    string // "extract" or "detail"
	Err      error
}

func (e *ItemError) Error() string {
	ref := e.URL
	if ref == "" {
		ref = fmt.Sprintf("position %d", e.Position)
	}
	return fmt.Sprintf("item %s failed at %s: %v", ref, e.Stage, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
