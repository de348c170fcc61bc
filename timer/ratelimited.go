package timer

import (
	"context"

	"github.com/fxsml/dflow/internal/throttle"
)

// RateLimited wraps another Timer, using a throttle.Allower to cap how
// often the inner timer's ticks are passed through to listeners. Useful
// when the inner timer is broker-driven (NATS, AMQP, Kafka) and the broker
// delivers faster than downstream nodes should be ticked.
type RateLimited struct {
	base
	inner   Timer
	allower throttle.Allower
	ctx     context.Context
}

// NewRateLimited wraps inner with allower. ctx bounds how long a tick may
// wait for a token; a context.Canceled from Allow is treated as a dropped
// tick, not an error.
func NewRateLimited(ctx context.Context, inner Timer, allower throttle.Allower) *RateLimited {
	r := &RateLimited{inner: inner, allower: allower, ctx: ctx}
	inner.Listen(r.onTick)
	return r
}

func (r *RateLimited) onTick() {
	if r.Stopped() {
		return
	}
	if err := r.allower.Allow(r.ctx, 1); err != nil {
		return
	}
	r.fire()
}

// Stop stops the wrapped timer in addition to the base Stop bookkeeping.
func (r *RateLimited) Stop() {
	r.inner.Stop()
	r.base.Stop()
}
