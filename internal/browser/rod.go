package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"devtrend/internal/config"
	"devtrend/internal/types"
)

// RodBrowser implements Browser on a headless Chromium via Rod. Sessions
// are incognito browser contexts, so each carries its own cookie store.
type RodBrowser struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewRodBrowser launches a Chromium instance and connects to it.
func NewRodBrowser(cfg *config.BrowserConfig, logger *slog.Logger) (*RodBrowser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(launchURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger = logger.With("component", "rod_browser")
	logger.Info("browser ready", "headless", cfg.Headless, "stealth", cfg.Stealth)

	return &RodBrowser{browser: b, cfg: cfg, logger: logger}, nil
}

// NewSession creates an incognito context carrying the given user agent.
func (b *RodBrowser) NewSession(userAgent string) (Session, error) {
	inc, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}
	return &rodSession{
		browser:   inc,
		userAgent: userAgent,
		stealth:   b.cfg.Stealth,
		logger:    b.logger,
	}, nil
}

func (b *RodBrowser) Close() error {
	return b.browser.Close()
}

type rodSession struct {
	browser   *rod.Browser
	userAgent string
	stealth   bool
	logger    *slog.Logger
}

func (s *rodSession) UserAgent() string { return s.userAgent }

// NewPage opens a blank page in this session. Stealth patches and the
// user-agent override are installed before any navigation so they take
// effect for every document the page loads.
func (s *rodSession) NewPage() (Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	if s.stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			s.logger.Warn("stealth injection failed, proceeding without it", "error", err)
		}
	}

	if s.userAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent})
		if err != nil {
			s.logger.Warn("failed to set user agent", "error", err)
		}
	}

	return &rodPage{page: page}, nil
}

func (s *rodSession) Close() error {
	if s.browser.BrowserContextID == "" {
		return nil
	}
	return proto.TargetDisposeBrowserContext{
		BrowserContextID: s.browser.BrowserContextID,
	}.Call(s.browser)
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := p.page.Context(ctx).Timeout(timeout).Navigate(url); err != nil {
		return &types.NavigationError{URL: url, Err: err}
	}
	return nil
}

func (p *rodPage) WaitIdle(timeout time.Duration) error {
	return p.page.Timeout(timeout).WaitDOMStable(300*time.Millisecond, 0.1)
}

func (p *rodPage) Eval(js string) error {
	_, err := p.page.Eval(js)
	return err
}

func (p *rodPage) Elements(selector string) ([]Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (p *rodPage) WaitVisible(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) HTML() (string, error) {
	return e.el.HTML()
}
