package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig bounds request throughput per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns the fallback limits used when the
// configured rate is unset or invalid.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// bucket is one client's token bucket. take refills lazily from the elapsed
// time, then either spends a token or reports the seconds until one is due.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // tokens per second
	lastSeen time.Time
}

func (b *bucket) take(now time.Time) (ok bool, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastSeen).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if b.rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/b.rate) + 1
}

// clientLimiter maps client keys to buckets, evicting entries idle for
// longer than staleAfter so the map stays bounded.
type clientLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	cfg        RateLimitConfig
	lastSweep  time.Time
	staleAfter time.Duration
}

func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	return &clientLimiter{
		buckets:    make(map[string]*bucket),
		cfg:        cfg,
		lastSweep:  time.Now(),
		staleAfter: 10 * time.Minute,
	}
}

func (l *clientLimiter) take(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	if now.Sub(l.lastSweep) > l.staleAfter {
		for k, b := range l.buckets {
			b.mu.Lock()
			stale := now.Sub(b.lastSeen) > l.staleAfter
			b.mu.Unlock()
			if stale {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:   float64(l.cfg.BurstSize),
			capacity: float64(l.cfg.BurstSize),
			rate:     l.cfg.RequestsPerSecond,
			lastSeen: now,
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.take(now)
}

// RateLimit enforces a per-IP token bucket and answers 429 with a
// Retry-After hint once the burst is spent.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	limiter := newClientLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := limiter.take(c.RealIP(), time.Now())
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
