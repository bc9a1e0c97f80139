package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
)

// RateLimiter counts requests per key in fixed windows. Counts live in the
// cache when one is configured and in process memory otherwise, or when the
// cache fails.
type RateLimiter struct {
	cache   providers.CacheProvider
	metrics *observability.Metrics
	local   *localRateLimiter
}

// NewRateLimiter creates a rate limiter; cache and metrics may be nil
func NewRateLimiter(cache providers.CacheProvider, metrics *observability.Metrics) *RateLimiter {
	return &RateLimiter{cache: cache, metrics: metrics, local: newLocalRateLimiter()}
}

// Allow reports whether another request under key fits in the window
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	allowed, retryAfter := l.count(ctx, key, limit, window)
	if !allowed {
		scope, _, _ := strings.Cut(key, ":")
		observability.RecordRateLimited(ctx, l.metrics, scope)
	}
	return allowed, retryAfter
}

func (l *RateLimiter) count(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	if l.cache != nil {
		count, err := l.cache.Incr(ctx, "ratelimit:"+key, int(window.Seconds()))
		if err == nil {
			return count <= int64(limit), window
		}
		log.Warn().Err(err).Str("key", key).Msg("rate limit cache unavailable, counting locally")
	}
	return l.local.allow(key, limit, window)
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
