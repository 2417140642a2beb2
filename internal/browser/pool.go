package browser

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"devtrend/internal/types"
)

// Pool rotates isolated browsing identities over one shared browser.
// A rotation boundary occurs every rotateEvery processed items: the prior
// session is closed and a replacement is created with a user agent drawn
// at random from the identity pool. Rotation spreads load across
// identities; it never reorders or skips items.
//
// A Pool is owned by a single orchestration run and is not safe for
// concurrent use.
type Pool struct {
	browser     Browser
	userAgents  []string
	rotateEvery int
	rng         *rand.Rand
	logger      *slog.Logger

	cur     Session
	curSlot int
	created int
	closed  bool
}

// NewPool creates a session pool. rotateEvery values below 1 fall back to
// the default of 20.
func NewPool(b Browser, userAgents []string, rotateEvery int, logger *slog.Logger) *Pool {
	if rotateEvery < 1 {
		rotateEvery = 20
	}
	return &Pool{
		browser:     b,
		userAgents:  userAgents,
		rotateEvery: rotateEvery,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger.With("component", "session_pool"),
	}
}

// SessionFor returns the session owning the item at the given 0-based
// processing index. Crossing a rotation boundary closes the previous
// session before its successor starts.
func (p *Pool) SessionFor(index int) (Session, error) {
	if p.closed {
		return nil, types.ErrSessionClosed
	}

	slot := index / p.rotateEvery
	if p.cur != nil && slot == p.curSlot {
		return p.cur, nil
	}

	if p.cur != nil {
		if err := p.cur.Close(); err != nil {
			p.logger.Warn("session close failed", "error", err)
		}
		p.cur = nil
	}

	ua, err := p.pickUserAgent()
	if err != nil {
		return nil, err
	}
	s, err := p.browser.NewSession(ua)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	p.cur = s
	p.curSlot = slot
	p.created++
	p.logger.Debug("session rotated", "slot", slot, "sessions_created", p.created)
	return s, nil
}

// Created returns how many sessions this pool has opened so far.
func (p *Pool) Created() int { return p.created }

// Close retires the active session, if any, and rejects further
// SessionFor calls. The underlying browser is not closed; it belongs to
// the caller.
func (p *Pool) Close() error {
	p.closed = true
	if p.cur == nil {
		return nil
	}
	err := p.cur.Close()
	p.cur = nil
	return err
}

func (p *Pool) pickUserAgent() (string, error) {
	if len(p.userAgents) == 0 {
		return "", types.ErrNoUserAgents
	}
	return p.userAgents[p.rng.Intn(len(p.userAgents))], nil
}
