package api

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter grants each client IP a bucket of requests per window.
type clientLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientBucket
	limit       rate.Limit
	burst       int
	window      time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

func newClientLimiter(requests int, window time.Duration) *clientLimiter {
	if requests <= 0 {
		requests = 100
	}
	if window <= 0 {
		window = time.Hour
	}
	return &clientLimiter{
		clients:     make(map[string]*clientBucket),
		limit:       rate.Every(window / time.Duration(requests)),
		burst:       requests,
		window:      window,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *clientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) > l.window {
		// a bucket idle for a whole window has refilled, dropping it loses nothing
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > l.window {
				delete(l.clients, key)
			}
		}
		l.lastCleanup = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.allow(s.proxies.clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "rate limit reached, retry later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// trustedProxies lists the peers whose forwarding headers are believed.
type trustedProxies []netip.Prefix

// parseTrustedProxies accepts single addresses and CIDR ranges.
func parseTrustedProxies(values []string) (trustedProxies, error) {
	var proxies trustedProxies
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, err
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p trustedProxies) contains(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP extracts the client IP address from the request. Forwarding headers
// are only read when the direct peer is a trusted proxy.
func (p trustedProxies) clientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remote = host
	}
	if !p.contains(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		// walk back from the nearest hop, the first untrusted one is the client
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.contains(hop) {
				return hop
			}
		}
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}
