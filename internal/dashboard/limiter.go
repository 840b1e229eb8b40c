package dashboard

import (
	"sync"

	"wedhub/internal/config"

	"golang.org/x/time/rate"
)

// actorLimiter hands out one token bucket per acting actor id to smooth
// request bursts. Sustained volume is capped separately by the windowed
// counter in the session store.
type actorLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func newActorLimiter(cfg config.DashboardConfig) *actorLimiter {
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}
	return &actorLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(cfg.RateLimitRPS),
		burst:   burst,
	}
}

func (l *actorLimiter) allow(key string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.rps, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}
