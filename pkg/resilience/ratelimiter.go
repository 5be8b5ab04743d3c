package resilience

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterOpts configures a KeyedLimiter.
type LimiterOpts struct {
	// Rate is the sustained events per second allowed per key.
	Rate float64
	// Burst is the bucket size per key.
	Burst int
	// IdleTTL evicts keys not seen for this long. Zero keeps keys forever.
	IdleTTL time.Duration
}

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// KeyedLimiter holds one token bucket per key, such as a client address.
type KeyedLimiter struct {
	mu     sync.Mutex
	opts   LimiterOpts
	keys   map[string]*entry
	lastGC time.Time
	now    func() time.Time
}

func NewKeyedLimiter(opts LimiterOpts) *KeyedLimiter {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &KeyedLimiter{opts: opts, keys: make(map[string]*entry), now: time.Now}
}

// Allow reports whether an event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Limit(l.opts.Rate), l.opts.Burst)}
		l.keys[key] = e
	}
	e.seen = now
	l.evict(now)
	l.mu.Unlock()
	return e.lim.AllowN(now, 1)
}

// Len is the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// evict drops idle keys at most once per IdleTTL. Must hold mu.
func (l *KeyedLimiter) evict(now time.Time) {
	if l.opts.IdleTTL <= 0 || now.Sub(l.lastGC) < l.opts.IdleTTL {
		return
	}
	l.lastGC = now
	for k, e := range l.keys {
		if now.Sub(e.seen) >= l.opts.IdleTTL {
			delete(l.keys, k)
		}
	}
}
