// Package pacer enforces a process-wide minimum interval between outbound requests.
//
// The pacer is a leaky bucket of one: the first request is dispatched immediately and
// every following request is held until the interval has elapsed since the previous
// dispatch slot. There is no burst allowance.
package pacer

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/internal/clock"
)

// DefaultInterval is the minimum spacing Eurostat tolerates without throttling.
const DefaultInterval = 350 * time.Millisecond

// Pacer hands out dispatch slots in the order callers ask for them.
// Slot reservation happens under the limiter's own lock, so the check-then-update of the
// last dispatch time is atomic across goroutines.
type Pacer struct {
	limiter *rate.Limiter
	clock   clock.Clock
}

// New creates a pacer with the given minimum interval. A nil clock uses wall time.
func New(interval time.Duration, clk clock.Clock) *Pacer {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Pacer{
		limiter: rate.NewLimiter(limitFor(interval), 1),
		clock:   clk,
	}
}

// Wait blocks until the caller may dispatch and returns how long it waited.
// If ctx ends first the reserved slot is released for later callers.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	now := p.clock.Now()
	r := p.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, errors.New("pacer cannot grant a dispatch slot")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return 0, nil
	}
	if err := p.clock.Sleep(ctx, delay); err != nil {
		r.CancelAt(p.clock.Now())
		return 0, errors.Wrap(err, "interrupted while waiting for request slot")
	}
	return delay, nil
}

// SetInterval changes the minimum spacing for subsequent reservations.
func (p *Pacer) SetInterval(interval time.Duration) {
	p.limiter.SetLimitAt(p.clock.Now(), limitFor(interval))
}

// Interval reports the current minimum spacing.
func (p *Pacer) Interval() time.Duration {
	limit := p.limiter.Limit()
	if limit == rate.Inf || limit <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(limit))
}

func limitFor(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}
