// Package healthcheck provides health and readiness check functionality
// Following the Health Check API pattern for cloud-native applications
package healthcheck

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents a health check
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
	Metadata    interface{}   `json:"metadata,omitempty"`
}

// Response represents the health check response
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck manages health checks
type HealthCheck struct {
	version  string
	checkers map[string]Checker
	logger   *zap.Logger
	mu       sync.RWMutex
	cache    *Response
	cacheTTL time.Duration
	timeout  time.Duration
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		checkers: make(map[string]Checker),
		logger:   logger.Named("healthcheck"),
		cacheTTL: 5 * time.Second,
		timeout:  5 * time.Second,
	}
}

// Register registers a health checker
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cache = nil
}

// SetCacheTTL sets the cache TTL for health check responses
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Handler returns the HTTP handler for health checks
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		h.writeJSON(w, statusCode, response)
	}
}

// LivenessHandler returns the HTTP handler for liveness checks
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	}
}

// ReadinessHandler returns the HTTP handler for readiness checks
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		if response.Status == StatusUnhealthy {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"reason": "Health checks failed",
				"checks": response.Checks,
			})
			return
		}

		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"timestamp": time.Now(),
		})
	}
}

func (h *HealthCheck) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to encode health response", zap.Error(err))
	}
}

// Check runs every checker concurrently; results are cached for cacheTTL
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	start := time.Now()
	response := Response{
		Version:   h.version,
		Timestamp: start,
		Status:    StatusHealthy,
		Checks:    []Check{},
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	checksChan := make(chan Check, len(checkers))
	for name, checker := range checkers {
		wg.Add(1)
		go func(n string, c Checker) {
			defer wg.Done()
			check := c.Check(checkCtx)
			check.Name = n
			checksChan <- check
		}(name, checker)
	}
	wg.Wait()
	close(checksChan)

	for check := range checksChan {
		response.Checks = append(response.Checks, check)

		if check.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
			h.logger.Warn("Health check failed",
				zap.String("check", check.Name),
				zap.String("message", check.Message),
			)
		} else if check.Status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	response.TotalDuration = time.Since(start)

	h.mu.Lock()
	h.cache = &response
	h.mu.Unlock()

	return response
}

// DatabaseChecker checks database health
type DatabaseChecker struct {
	db *sql.DB
}

// NewDatabaseChecker creates a new database checker
func NewDatabaseChecker(db *sql.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check pings the database and reports pool usage
func (d *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:        "database",
		LastChecked: start,
	}

	err := d.db.PingContext(ctx)
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}

	stats := d.db.Stats()
	check.Status = StatusHealthy
	check.Metadata = map[string]interface{}{
		"open_conns":     stats.OpenConnections,
		"in_use":         stats.InUse,
		"idle":           stats.Idle,
		"max_open_conns": stats.MaxOpenConnections,
		"wait_count":     stats.WaitCount,
	}

	if stats.MaxOpenConnections > 1 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		if utilization > 90 {
			check.Status = StatusDegraded
			check.Message = "High connection pool utilization"
		}
	}

	return check
}

// RedisChecker checks Redis health
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis checker
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Check performs Redis health check. The cache is optional, so an
// unreachable server degrades the service instead of failing it.
func (r *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:        "redis",
		LastChecked: start,
	}

	pong, err := r.client.Ping(ctx).Result()
	check.Duration = time.Since(start)

	switch {
	case err != nil:
		check.Status = StatusDegraded
		check.Message = err.Error()
	case pong != "PONG":
		check.Status = StatusDegraded
		check.Message = "Unexpected ping response"
	default:
		check.Status = StatusHealthy
		check.Metadata = map[string]interface{}{
			"pool_hits":   r.client.PoolStats().Hits,
			"total_conns": r.client.PoolStats().TotalConns,
		}
	}

	return check
}

// BreakerChecker reports the state of a circuit breaker
type BreakerChecker struct {
	breaker *CircuitBreaker
}

// NewBreakerChecker creates a checker that is degraded while cb is not closed
func NewBreakerChecker(cb *CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{breaker: cb}
}

// Check reports the breaker state without calling the guarded dependency
func (b *BreakerChecker) Check(ctx context.Context) Check {
	state := b.breaker.GetState()
	check := Check{
		Name:        b.breaker.Name(),
		Status:      StatusHealthy,
		LastChecked: time.Now(),
		Metadata: map[string]interface{}{
			"state": state.String(),
			"stats": b.breaker.GetStats(),
		},
	}
	if state != StateClosed {
		check.Status = StatusDegraded
		check.Message = "circuit " + state.String()
	}
	return check
}

// CustomChecker allows for custom health check logic
type CustomChecker struct {
	name  string
	check func(ctx context.Context) (Status, string, interface{})
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(name string, check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{
		name:  name,
		check: check,
	}
}

// Check performs custom health check
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()

	status, message, metadata := c.check(ctx)

	return Check{
		Name:        c.name,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		Duration:    time.Since(start),
	}
}

// MarshalJSON customizes JSON marshaling for duration
func (c Check) MarshalJSON() ([]byte, error) {
	type Alias Check
	return json.Marshal(&struct {
		Duration float64 `json:"duration_ms"`
		*Alias
	}{
		Duration: float64(c.Duration.Milliseconds()),
		Alias:    (*Alias)(&c),
	})
}

// MarshalJSON customizes JSON marshaling for response
func (r Response) MarshalJSON() ([]byte, error) {
	type Alias Response
	return json.Marshal(&struct {
		TotalDuration float64 `json:"total_duration_ms"`
		*Alias
	}{
		TotalDuration: float64(r.TotalDuration.Milliseconds()),
		Alias:         (*Alias)(&r),
	})
}
