package middleware

import (
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userauth/errors"
)

// DefaultRequestsPerMinute is the per-client budget for the register and
// login routes when none is configured.
const DefaultRequestsPerMinute = 30

const (
	window        = time.Minute
	sweepInterval = 5 * time.Minute
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RequestsPerMinute int
	// KeyFunc identifies the client. Defaults to IPBasedKey.
	KeyFunc func(*gin.Context) string
	Now     func() time.Time
}

// RateLimit allows each client RequestsPerMinute requests in any sliding
// one-minute window. Rejected requests get RATE_LIMITED (429) and a
// Retry-After header with the seconds until the oldest request leaves the
// window.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	w := &slidingWindow{
		seen:  make(map[string][]time.Time),
		limit: cfg.RequestsPerMinute,
		now:   cfg.Now,
	}

	return func(c *gin.Context) {
		if wait, ok := w.admit(cfg.KeyFunc(c)); !ok {
			secs := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			abort(c, apperrors.RateLimited().WithDetail("retry_after_seconds", secs))
			return
		}
		c.Next()
	}
}

// IPBasedKey keys on the client IP as resolved by gin.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// slidingWindow keeps, per key, the request times inside the last window in
// arrival order.
type slidingWindow struct {
	mu        sync.Mutex
	seen      map[string][]time.Time
	limit     int
	now       func() time.Time
	lastSweep time.Time
}

// admit records a request for key unless the budget is spent, in which case
// it returns how long until a slot frees up.
func (w *slidingWindow) admit(key string) (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-window)
	if now.Sub(w.lastSweep) > sweepInterval {
		w.sweep(cutoff)
		w.lastSweep = now
	}

	recent := expire(w.seen[key], cutoff)
	if len(recent) >= w.limit {
		w.seen[key] = recent
		return recent[0].Add(window).Sub(now), false
	}
	w.seen[key] = append(recent, now)
	return 0, true
}

// sweep forgets idle clients. Caller holds mu.
func (w *slidingWindow) sweep(cutoff time.Time) {
	for key, times := range w.seen {
		if recent := expire(times, cutoff); len(recent) > 0 {
			w.seen[key] = recent
		} else {
			delete(w.seen, key)
		}
	}
}

// expire drops the leading entries at or before cutoff.
func expire(times []time.Time, cutoff time.Time) []time.Time {
	i := slices.IndexFunc(times, func(t time.Time) bool { return t.After(cutoff) })
	if i < 0 {
		return nil
	}
	return times[i:]
}
