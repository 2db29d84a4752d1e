package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/response"
)

// window counts the requests of one client IP inside a fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter caps each client IP at max requests per window. Counters for
// idle clients are dropped by Sweep, which Run calls on a ticker.
type RateLimiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

// NewRateLimiter returns a limiter allowing max requests per period for each
// IP. A max of zero or less disables limiting.
func NewRateLimiter(max int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		period:  period,
		now:     time.Now,
		clients: map[string]*window{},
	}
}

// allow records one request from ip. When the window is exhausted it reports
// how long until the next one opens.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[ip]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.period)}
		rl.clients[ip] = w
	}

	w.count++
	if w.count <= rl.max {
		return true, 0
	}
	return false, w.resetAt.Sub(now)
}

// Sweep drops every client whose window ended before now and returns how
// many were removed.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// Run sweeps expired clients once per period until ctx is done. It returns
// at once for a disabled limiter.
func (rl *RateLimiter) Run(ctx context.Context) {
	if rl.max <= 0 || rl.period <= 0 {
		return
	}
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(rl.now())
		}
	}
}

// Middleware answers 429 with a Retry-After header once a client IP has used
// up its window.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl.max <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := rl.allow(clientIP(r))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the peer address
// without its port.
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
