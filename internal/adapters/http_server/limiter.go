package httpserver

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SessionLimiter applies a token bucket per conversation.
type SessionLimiter struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	idle  time.Duration
	items map[string]*limiterEntry
	now   func() time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewSessionLimiter returns nil when rps <= 0.
func NewSessionLimiter(rps float64, burst int) *SessionLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &SessionLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		idle:  10 * time.Minute,
		items: map[string]*limiterEntry{},
		now:   time.Now,
	}
}

func (l *SessionLimiter) Allow(session string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.items[session]
	if !ok {
		if len(l.items) >= 1024 {
			l.prune(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.items[session] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

func (l *SessionLimiter) prune(now time.Time) {
	for k, e := range l.items {
		if now.Sub(e.seen) > l.idle {
			delete(l.items, k)
		}
	}
}
