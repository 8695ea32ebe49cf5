package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
)

// Limiter is a fixed-window counter. Allow reports whether the caller
// identified by key is still under the window's budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// fixedWindowScript increments the caller's counter and sets the window TTL
// atomically on first hit, so the window cannot leak without an expiry.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter counts per-key hits in redis, which keeps the limit correct
// across replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := fixedWindowScript.Run(ctx, l.client, []string{"ratelimit:" + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}

type fixedWindow struct {
	count       int
	windowStart time.Time
}

// LocalLimiter is the in-process fallback when no redis address is
// configured. Windows are per key; stale entries are swept on the next Allow
// after the cleanup deadline passes.
type LocalLimiter struct {
	mu      sync.Mutex
	store   map[string]*fixedWindow
	limit   int
	window  time.Duration
	cleanup time.Time
	now     func() time.Time
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		store:   make(map[string]*fixedWindow),
		limit:   limit,
		window:  window,
		cleanup: time.Now().Add(window),
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.cleanup) {
		for k, v := range l.store {
			if now.Sub(v.windowStart) > 2*l.window {
				delete(l.store, k)
			}
		}
		l.cleanup = now.Add(l.window)
	}

	entry, ok := l.store[key]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		l.store[key] = &fixedWindow{count: 1, windowStart: now}
		return true, nil
	}
	if entry.count >= l.limit {
		return false, nil
	}
	entry.count++
	return true, nil
}

// LimitRule selects the requests a limiter applies to. An empty Method
// matches every method.
type LimitRule struct {
	Method string
	Prefix string
}

func (rule LimitRule) matches(r *http.Request) bool {
	if rule.Method != "" && rule.Method != r.Method {
		return false
	}
	return strings.HasPrefix(r.URL.Path, rule.Prefix)
}

// RateLimit throttles the matching routes per client IP. Limiter errors fail
// closed; an unreachable backend must not turn the limit off.
func RateLimit(limiter Limiter, writer *response.Writer, log *slog.Logger, rules ...LimitRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var matched *LimitRule
			for i := range rules {
				if rules[i].matches(r) {
					matched = &rules[i]
					break
				}
			}
			if matched == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := matched.Prefix + ":" + clientIP(r)
			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable, rejecting request", "error", err)
				writer.JSON(w, r, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
				return
			}
			if !ok {
				writer.JSON(w, r, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
