// Package limitx provides token-bucket limiters keyed by an arbitrary string
// (client IP, user id, email address).
package limitx

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config describes a token bucket as "N events per window" with a burst.
type Config struct {
	// Events is the number of events allowed in Window.
	Events int
	// Window is the refill period for Events.
	Window time.Duration
	// Burst is the bucket size.
	Burst int
}

// Limit converts the config into a per-second rate.
func (c Config) Limit() rate.Limit {
	if c.Window <= 0 || c.Events <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(c.Events) / c.Window.Seconds())
}

// Keyed hands out one limiter per key and forgets idle ones.
type Keyed struct {
	limiters sync.Map // map[string]*rate.Limiter
	limit    rate.Limit
	burst    int

	mu         sync.Mutex
	lastSweep  time.Time
	sweepEvery time.Duration
	now        func() time.Time
}

// NewKeyed returns a keyed limiter for cfg.
func NewKeyed(cfg Config) *Keyed {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Keyed{
		limit:      cfg.Limit(),
		burst:      burst,
		lastSweep:  time.Now(),
		sweepEvery: 5 * time.Minute,
		now:        time.Now,
	}
}

// Allow consumes one token for key. When the bucket is empty it reports
// false and the delay until the next token becomes available.
func (k *Keyed) Allow(key string) (bool, time.Duration) {
	l := k.get(key)
	if l.Allow() {
		return true, 0
	}

	r := l.Reserve()
	delay := r.Delay()
	r.Cancel()
	return false, delay
}

func (k *Keyed) get(key string) *rate.Limiter {
	if l, ok := k.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	l := rate.NewLimiter(k.limit, k.burst)
	actual, _ := k.limiters.LoadOrStore(key, l)

	k.maybeSweep()
	return actual.(*rate.Limiter)
}

// Sweep drops limiters whose buckets are full again. A full bucket has not
// been used for at least one refill period, so dropping it loses nothing.
func (k *Keyed) Sweep() int {
	removed := 0
	k.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(k.burst) {
			k.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (k *Keyed) maybeSweep() {
	k.mu.Lock()
	now := k.now()
	if now.Sub(k.lastSweep) < k.sweepEvery {
		k.mu.Unlock()
		return
	}
	k.lastSweep = now
	k.mu.Unlock()

	k.Sweep()
}
