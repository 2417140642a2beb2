package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devtrend/internal/types"
)

// FakeBrowser, FakeSession and FakePage are the deterministic adapter the
// tests script. They record every call so tests can assert on open/close
// ordering and per-attempt page lifecycles.

// FakeBrowser hands out scripted sessions and keeps an ordered event log
// ("open N" / "close N") of session lifecycles.
type FakeBrowser struct {
	Sessions      []*FakeSession
	Events        []string
	NewSessionErr error

	// PageFactory supplies the page returned by each NewPage call on
	// sessions created by this browser. Nil yields empty pages.
	PageFactory func() *FakePage

	Closed bool
}

func (b *FakeBrowser) NewSession(userAgent string) (Session, error) {
	if b.NewSessionErr != nil {
		return nil, b.NewSessionErr
	}
	s := &FakeSession{
		Agent:       userAgent,
		PageFactory: b.PageFactory,
		browser:     b,
		index:       len(b.Sessions),
	}
	b.Sessions = append(b.Sessions, s)
	b.Events = append(b.Events, fmt.Sprintf("open %d", s.index))
	return s, nil
}

func (b *FakeBrowser) Close() error {
	b.Closed = true
	return nil
}

// FakeSession records the pages it opened and how often it was closed.
type FakeSession struct {
	Agent       string
	PageFactory func() *FakePage
	Pages       []*FakePage
	NewPageErr  error
	CloseCalls  int

	browser *FakeBrowser
	index   int
}

func (s *FakeSession) NewPage() (Page, error) {
	if s.NewPageErr != nil {
		return nil, s.NewPageErr
	}
	var p *FakePage
	if s.PageFactory != nil {
		p = s.PageFactory()
	} else {
		p = &FakePage{}
	}
	s.Pages = append(s.Pages, p)
	return p, nil
}

func (s *FakeSession) UserAgent() string { return s.Agent }

func (s *FakeSession) Close() error {
	s.CloseCalls++
	if s.browser != nil {
		s.browser.Events = append(s.browser.Events, fmt.Sprintf("close %d", s.index))
	}
	return nil
}

// FakePage simulates a lazily loading document. Items holds the markup of
// every item the page can eventually reveal; Visible is how many are in
// the DOM right now; each scroll evaluation reveals RevealPerScroll more.
type FakePage struct {
	Items           []string
	Visible         int
	RevealPerScroll int

	// SelectorHTML serves canned markup per selector and takes precedence
	// over Items.
	SelectorHTML map[string][]string

	// ItemHTMLErr fails the HTML() call of the item at the given index.
	ItemHTMLErr map[int]error

	NavigateErr    error
	WaitIdleErr    error
	WaitVisibleErr error
	ElementsErr    error

	NavigatedTo   []string
	ScrollCalls   int
	WaitIdleCalls int
	CloseCalls    int
}

func (p *FakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	p.NavigatedTo = append(p.NavigatedTo, url)
	if p.NavigateErr != nil {
		return &types.NavigationError{URL: url, Err: p.NavigateErr}
	}
	return nil
}

func (p *FakePage) WaitIdle(time.Duration) error {
	p.WaitIdleCalls++
	return p.WaitIdleErr
}

func (p *FakePage) Eval(js string) error {
	if strings.Contains(js, "scrollTo") {
		p.ScrollCalls++
		p.Visible += p.RevealPerScroll
		if p.Visible > len(p.Items) {
			p.Visible = len(p.Items)
		}
	}
	return nil
}

func (p *FakePage) Elements(selector string) ([]Element, error) {
	if p.ElementsErr != nil {
		return nil, p.ElementsErr
	}
	if markup, ok := p.SelectorHTML[selector]; ok {
		return p.wrap(markup), nil
	}
	return p.wrap(p.Items[:p.Visible]), nil
}

func (p *FakePage) WaitVisible(string, time.Duration) error {
	return p.WaitVisibleErr
}

func (p *FakePage) Close() error {
	p.CloseCalls++
	return nil
}

func (p *FakePage) wrap(markup []string) []Element {
	els := make([]Element, len(markup))
	for i, m := range markup {
		els[i] = &FakeElement{Markup: m, Err: p.ItemHTMLErr[i]}
	}
	return els
}

// FakeElement returns canned markup, or a scripted error to simulate an
// invalidated handle.
type FakeElement struct {
	Markup string
	Err    error
}

func (e *FakeElement) HTML() (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Markup, nil
}
