package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/linkpreview"
	"golang.org/x/time/rate"
)

var _ linkpreview.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out previews of URLs that share a hostname, so a batch
// full of links to one site does not hammer it. Each hostname gets its own
// token bucket with a burst of 1; previews of other hosts are not delayed.
type DomainLimiter struct {
	rps float64

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a DomainLimiter allowing rps previews per second
// per hostname. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:   rps,
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a preview of host may start. Hostnames are compared
// case-insensitively. It fails without waiting when ctx is done or when its
// deadline would pass before a token is available.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	host = strings.ToLower(host)

	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.hosts[host] = l
	}
	return l
}
