package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"paydesk/internal/transport/http/api"
)

const loginPeekLimit = 16 * 1024

type windowBucket struct {
	count int
	reset time.Time
}

// fixedWindow counts hits per key and allows limit of them per window.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*windowBucket
}

func newFixedWindow(limit int, window time.Duration) *fixedWindow {
	return &fixedWindow{limit: limit, window: window, now: time.Now, buckets: map[string]*windowBucket{}}
}

// take records one hit for key and reports how many remain in the current
// window and when it resets.
func (f *fixedWindow) take(key string) (ok bool, remaining int, retryAfter time.Duration) {
	now := f.now()
	f.mu.Lock()
	defer f.mu.Unlock()

	for k, b := range f.buckets {
		if !now.Before(b.reset) {
			delete(f.buckets, k)
		}
	}
	b, found := f.buckets[key]
	if !found {
		b = &windowBucket{reset: now.Add(f.window)}
		f.buckets[key] = b
	}
	b.count++
	return b.count <= f.limit, max(f.limit-b.count, 0), b.reset.Sub(now)
}

// LoginRateLimit throttles sign-in attempts per client IP and, when the body
// names one, per username. Usernames compare case-insensitively.
func LoginRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	byIP := newFixedWindow(limit, window)
	byUser := newFixedWindow(limit, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			ok, remaining, retry := byIP.take(ip)
			username := strings.ToLower(peekJSONString(r, "username"))
			if ok && username != "" {
				var userRemaining int
				ok, userRemaining, retry = byUser.take(username)
				remaining = min(remaining, userRemaining)
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(max(int(retry.Seconds()), 1)))
				log.Warn().Str("ip", ip).Str("username", username).Msg("login rate limit exceeded")
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// peekJSONString reads a top-level string field from a JSON body without
// consuming it.
func peekJSONString(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	body := r.Body
	head, err := io.ReadAll(io.LimitReader(body, loginPeekLimit))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), body), body}
	if err != nil {
		return ""
	}
	var payload map[string]json.RawMessage
	if json.Unmarshal(head, &payload) != nil {
		return ""
	}
	var value string
	if json.Unmarshal(payload[field], &value) != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
