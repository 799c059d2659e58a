package crawl

import (
	"context"
	"sync"

	"github.com/mkowalski/docbase"
	"golang.org/x/time/rate"
)

var _ docbase.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces the politeness delay between fetches using
// per-domain token buckets with a burst of 1, so consecutive requests to
// the same host are spaced out regardless of the caller's concurrency.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per domain. A crawl delay of 1s corresponds to rps=1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
