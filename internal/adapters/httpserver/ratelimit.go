package httpserver

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// pruneThreshold bounds the client map; stale windows are swept once the
// map grows past it
const pruneThreshold = 1024

type window struct {
	start time.Time
	count int
}

// rateLimiter is a fixed-window request counter keyed by client identity.
// Counters reset on window rollover; over-limit requests within a window
// are rejected.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	length  time.Duration
	clients map[string]*window
	now     func() time.Time
}

func newRateLimiter(limit int, length time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		length:  length,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one request arrival for a client and reports whether it is
// within the window's ceiling
func (rl *rateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, ok := rl.clients[clientID]
	if !ok || now.Sub(w.start) >= rl.length {
		if len(rl.clients) >= pruneThreshold {
			rl.prune(now)
		}
		rl.clients[clientID] = &window{start: now, count: 1}
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// prune drops expired windows; caller holds the lock
func (rl *rateLimiter) prune(now time.Time) {
	for id, w := range rl.clients {
		if now.Sub(w.start) >= rl.length {
			delete(rl.clients, id)
		}
	}
}

// clientIP extracts the caller identity used for rate limiting. The
// forwarding header is client-supplied, so it only counts behind a trusted
// proxy; otherwise a caller could rotate it to dodge the ceiling.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			if i := strings.IndexByte(forwarded, ','); i >= 0 {
				forwarded = forwarded[:i]
			}
			return strings.TrimSpace(forwarded)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
