package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory sliding-window rate limiter
type RateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int           // Max requests
	window   time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	requests := rl.requests[key]

	var validRequests []time.Time
	for _, t := range requests {
		if t.After(windowStart) {
			validRequests = append(validRequests, t)
		}
	}

	if len(validRequests) >= rl.limit {
		rl.requests[key] = validRequests
		return false
	}

	validRequests = append(validRequests, now)
	rl.requests[key] = validRequests

	return true
}

// Remaining returns the number of remaining requests for a key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	count := 0
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			count++
		}
	}

	remaining := rl.limit - count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset returns the time when the rate limit resets for a key
func (rl *RateLimiter) Reset(key string) time.Time {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	requests := rl.requests[key]
	if len(requests) == 0 {
		return time.Now()
	}

	oldest := requests[0]
	for _, t := range requests {
		if t.Before(oldest) {
			oldest = t
		}
	}

	return oldest.Add(rl.window)
}

// cleanup periodically removes old entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		windowStart := time.Now().Add(-rl.window)

		for key, requests := range rl.requests {
			var validRequests []time.Time
			for _, t := range requests {
				if t.After(windowStart) {
					validRequests = append(validRequests, t)
				}
			}
			if len(validRequests) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = validRequests
			}
		}
		rl.mu.Unlock()
	}
}

// SubmissionRateLimiter limits form submissions per client IP to keep the
// notification mailbox from being flooded.
type SubmissionRateLimiter struct {
	limiter *RateLimiter
	limit   int
}

// NewSubmissionRateLimiter creates a per-IP rate limiter for form posts
func NewSubmissionRateLimiter(limit int, window time.Duration) *SubmissionRateLimiter {
	return &SubmissionRateLimiter{
		limiter: NewRateLimiter(limit, window),
		limit:   limit,
	}
}

// Handler returns middleware that rate limits form submissions by client IP
func (rl *SubmissionRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.limiter.Remaining(ip)))

		if !rl.limiter.Allow(ip) {
			writeRateLimitError(w, rl.limiter.Reset(ip))
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.limiter.Remaining(ip)))
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the client address for rate limiting and geolocation.
// chi's RealIP middleware has already folded X-Forwarded-For / X-Real-IP
// into RemoteAddr, so only the port needs stripping here.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitError writes a 429 response in the form response shape
func writeRateLimitError(w http.ResponseWriter, resetTime time.Time) {
	retryAfter := resetTime.Unix() - time.Now().Unix()
	if retryAfter < 0 {
		retryAfter = 0
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Too many requests. Please try again later.",
	})
}
