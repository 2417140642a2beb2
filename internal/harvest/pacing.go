package harvest

import (
	"math/rand"
	"time"
)

// Pacer decides how long to pause between scroll rounds and before retry
// attempts. Pacing is a policy, not a side effect: production uses
// randomized bounds to emulate human reading speed, tests run with zero
// delay.
type Pacer interface {
	ScrollDelay() time.Duration
	RetryDelay(attempt int) time.Duration
}

// NewRandomPacer returns a Pacer whose scroll delay is drawn uniformly
// from [min, max]. Detail-fetch retries carry no extra delay; natural
// network latency spaces them out.
func NewRandomPacer(min, max time.Duration) Pacer {
	if max < min {
		max = min
	}
	return &randomPacer{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type randomPacer struct {
	min, max time.Duration
	rng      *rand.Rand
}

func (p *randomPacer) ScrollDelay() time.Duration {
	if p.max == p.min {
		return p.min
	}
	return p.min + time.Duration(p.rng.Int63n(int64(p.max-p.min)+1))
}

func (p *randomPacer) RetryDelay(int) time.Duration { return 0 }

// NopPacer never waits. Tests use it to run the scroll and retry loops
// deterministically.
type NopPacer struct{}

func (NopPacer) ScrollDelay() time.Duration   { return 0 }
func (NopPacer) RetryDelay(int) time.Duration { return 0 }
