package server

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

// rateLimiter keeps one token bucket per client key. Each bucket holds up
// to limit tokens and refills at limit per window.
type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	trusted   []netip.Prefix
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter returns nil when limit is not positive, which allows every
// request.
func newRateLimiter(limit int, window time.Duration, trusted []netip.Prefix) *rateLimiter {
	if limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		trusted: trusted,
		now:     time.Now,
	}
}

// Allow returns true if a request is permitted for the given key.
func (rl *rateLimiter) Allow(key string) bool {
	if rl == nil {
		return true
	}
	if key == "" {
		key = "__global__"
	}

	now := rl.now()

	rl.mu.Lock()
	rl.sweep(now)
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for a full window. Such a bucket has refilled
// completely, so a fresh one behaves the same. Called with mu held.
func (rl *rateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.window {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// Len returns the number of tracked clients.
func (rl *rateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// clientKey identifies the client. Forwarding headers count only when the
// direct peer is a trusted proxy; the client is then the nearest
// X-Forwarded-For hop that is not itself a trusted proxy.
func (rl *rateLimiter) clientKey(r *http.Request) string {
	remote := extractIP(r.RemoteAddr)
	if !rl.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !rl.isTrusted(hop) || i == 0 {
				return hop
			}
		}
	}

	// X-Real-IP is a single IP set by some proxies
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}

func (rl *rateLimiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// extractIP extracts just the IP address from an address:port string.
func extractIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr // Return as-is if not host:port format
	}
	return host
}

// limit wraps a conversion handler with the per-client rate limit.
func (s *Server) limit(next http.HandlerFunc) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(s.limiter.clientKey(r)) {
			w.Header().Set("Retry-After", retryAfter(s.limiter.window))
			s.writeError(w, uerrors.New("HTTP-0001", map[string]any{
				"Limit":  s.limiter.limit,
				"Window": s.limiter.window.String(),
			}), 0)
			return
		}
		next(w, r)
	})
}

func retryAfter(window time.Duration) string {
	secs := int(window.Round(time.Second) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
