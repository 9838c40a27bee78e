package web

import (
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.Logger.Info("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.Logger.Error("panic recovered: %v\n%s", err, debug.Stack())
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// idleClientTTL is how long a client's token bucket survives without
// requests before it is dropped.
const idleClientTTL = 10 * time.Minute

// clientLimiter keeps one token bucket per client address. Buckets live in
// a TTL cache refreshed on every request, so idle clients are evicted.
type clientLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients *cache.Cache
}

func newClientLimiter(rps float64, idle time.Duration) *clientLimiter {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: cache.New(idle, idle),
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	var l *rate.Limiter
	if v, ok := cl.clients.Get(key); ok {
		l = v.(*rate.Limiter)
	} else {
		l = rate.NewLimiter(cl.rps, cl.burst)
	}
	cl.clients.SetDefault(key, l)
	cl.mu.Unlock()
	return l.Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
