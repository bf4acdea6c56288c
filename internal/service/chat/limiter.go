package chat

import (
	"math"
	"sync"
	"time"

	"grimoires/internal/domain"

	"golang.org/x/time/rate"
)

// Limiter is a per-user token bucket guarding message posting.
type Limiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

// NewLimiter allows perMinute messages per user with bursts of burst. A
// non-positive perMinute disables limiting.
func NewLimiter(perMinute, burst int) *Limiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Allow consumes one token for the user or returns a RateLimitedError.
func (l *Limiter) Allow(userID string) error {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	now := l.now()
	l.mu.Unlock()

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return &domain.RateLimitedError{RetryAfterSeconds: 1}
	}
	delay := res.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	res.CancelAt(now)
	return &domain.RateLimitedError{RetryAfterSeconds: int(math.Ceil(delay.Seconds()))}
}
