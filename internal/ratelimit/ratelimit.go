// Package ratelimit bounds the request rate against upstream hosts.
// The reference behavior slept between artifacts; this keeps the same
// observable property, a capped rate per host, while allowing the
// engine to run artifacts concurrently.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// PerHost hands out one token-bucket limiter per upstream host.
type PerHost struct {
	mu       sync.Mutex
	rps      rate.Limit
	limiters map[string]*rate.Limiter
}

// NewPerHost returns a limiter set allowing rps requests per second to
// each distinct host. A non-positive rps disables limiting.
func NewPerHost(rps float64) *PerHost {
	return &PerHost{
		rps:      rate.Limit(rps),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to the host of rawURL is allowed, or the
// context is done. Unparseable URLs are not limited; the request will
// fail on its own.
func (p *PerHost) Wait(ctx context.Context, rawURL string) error {
	if p.rps <= 0 {
		return nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}

	p.mu.Lock()
	limiter, ok := p.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(p.rps, 1)
		p.limiters[parsed.Host] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}
