package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
		CleanupInterval:   5 * time.Minute,
	}
}

// callerLimiter pairs a token-bucket limiter with its last access time so
// idle entries can be evicted.
type callerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter enforces a per-caller request rate. Callers are keyed by
// client IP, which covers both authenticated and pre-auth traffic.
type RateLimiter struct {
	config RateLimitConfig

	mu        sync.Mutex
	limiters  map[string]*callerLimiter
	nextSweep time.Time
}

// NewRateLimiter creates a RateLimiter with the given configuration.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerSecond <= 0 {
		config = DefaultRateLimitConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	return &RateLimiter{
		config:   config,
		limiters: make(map[string]*callerLimiter),
	}
}

// Allow reports whether the caller identified by key may proceed. At most
// once per cleanup interval it also sweeps idle entries, so the per-caller
// map stays bounded without a background goroutine.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.nextSweep) {
		rl.evictIdle(now)
		rl.nextSweep = now.Add(rl.config.CleanupInterval)
	}

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &callerLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.limiters[key] = cl
	}
	cl.lastAccess = now
	return cl.limiter.Allow()
}

// evictIdle drops limiters idle longer than the cleanup interval. Caller
// must hold rl.mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-rl.config.CleanupInterval)
	for key, cl := range rl.limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Middleware returns echo middleware enforcing the per-caller rate limit.
// Rejected requests receive 429 with a Retry-After hint.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// RateLimit is a convenience wrapper that builds a limiter from config and
// returns its middleware.
func RateLimit(config RateLimitConfig) echo.MiddlewareFunc {
	return NewRateLimiter(config).Middleware()
}
