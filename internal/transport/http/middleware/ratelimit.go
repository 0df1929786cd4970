package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"fairworkly/internal/requestctx"
	"fairworkly/internal/transport/http/api"
)

type rateBucket struct {
	count int
	reset time.Time
}

// rateLimiter is a fixed-window counter keyed per caller.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*rateBucket
}

func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	rl := &rateLimiter{limit: limit, window: window, buckets: make(map[string]*rateBucket)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(callerKey(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
				api.Fail(w, http.StatusTooManyRequests, "RATE_LIMITED",
					"too many requests, retry later", requestctx.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[key]
	if !ok || now.After(bucket.reset) {
		rl.buckets[key] = &rateBucket{count: 1, reset: now.Add(rl.window)}
		return true
	}
	if bucket.count >= rl.limit {
		return false
	}
	bucket.count++
	return true
}

// callerKey buckets by organization when authenticated, client IP
// otherwise.
func callerKey(r *http.Request) string {
	if identity, ok := GetIdentity(r.Context()); ok {
		return "org:" + identity.OrganizationID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
