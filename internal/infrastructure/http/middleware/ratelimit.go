package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       rate.Limit
	burst       int
	idle        time.Duration
	lastCleanup time.Time
	now         func() time.Time
	logger      *zap.Logger
}

// NewRateLimiter creates a limiter from requests per minute and burst size
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	idle := cfg.CleanupInterval
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(cfg.RequestsPerMin) / 60),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
		logger:   logger.Named("ratelimit"),
	}
}

// Allow reports whether key may make another request now
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastCleanup = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware limits per authenticated user, falling back to the client IP
func (l *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	retryAfter := "60"
	if l.limit > 0 {
		retryAfter = strconv.Itoa(int(1/float64(l.limit)) + 1)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !l.Allow(key) {
				l.logger.Warn("Rate limit exceeded",
					zap.String("client", key),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", retryAfter)
				WriteError(w, r, errors.NewTooManyRequestsError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := UserIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
