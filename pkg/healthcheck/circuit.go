package healthcheck

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while a breaker rejects calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int `json:"failure_threshold"`

	// SuccessThreshold is the number of half-open successes that closes it again
	SuccessThreshold int `json:"success_threshold"`

	// Timeout is how long the circuit stays open before probing
	Timeout time.Duration `json:"timeout"`

	// MaxRequests caps concurrent probes while half-open
	MaxRequests int `json:"max_requests"`

	// OnStateChange is called when the state changes, with the lock held
	OnStateChange func(name string, from, to CircuitBreakerState)
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breakers
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// CircuitBreakerStats holds statistics about circuit breaker operations
type CircuitBreakerStats struct {
	TotalRequests        int64 `json:"total_requests"`
	TotalFailures        int64 `json:"total_failures"`
	TotalRejections      int64 `json:"total_rejections"`
	ConsecutiveFailures  int   `json:"consecutive_failures"`
	ConsecutiveSuccesses int   `json:"consecutive_successes"`
}

// CircuitBreaker implements the circuit breaker pattern. The guarded call
// runs outside the lock.
type CircuitBreaker struct {
	name        string
	config      CircuitBreakerConfig
	state       CircuitBreakerState
	stats       CircuitBreakerStats
	nextAttempt time.Time
	probes      int
	now         func() time.Time
	mu          sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = defaults.MaxRequests
	}

	return &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Execute runs fn unless the circuit is open
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.acquire(); err != nil {
		return err
	}
	err := fn()
	cb.record(err == nil)
	return err
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.stats.TotalRequests++

	switch cb.state {
	case StateOpen:
		if cb.now().Before(cb.nextAttempt) {
			cb.stats.TotalRejections++
			return fmt.Errorf("%w: %s", ErrCircuitOpen, cb.name)
		}
		cb.setState(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if cb.probes >= cb.config.MaxRequests {
			cb.stats.TotalRejections++
			return fmt.Errorf("%w: %s", ErrCircuitOpen, cb.name)
		}
		cb.probes++
	}
	return nil
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.probes > 0 {
		cb.probes--
	}

	if success {
		cb.stats.ConsecutiveFailures = 0
		cb.stats.ConsecutiveSuccesses++
		if cb.state == StateHalfOpen && cb.stats.ConsecutiveSuccesses >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
		return
	}

	cb.stats.TotalFailures++
	cb.stats.ConsecutiveSuccesses = 0
	cb.stats.ConsecutiveFailures++

	switch cb.state {
	case StateClosed:
		if cb.stats.ConsecutiveFailures >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
	}
}

// setState must be called with the lock held
func (cb *CircuitBreaker) setState(newState CircuitBreakerState) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState

	switch newState {
	case StateOpen:
		cb.nextAttempt = cb.now().Add(cb.config.Timeout)
		cb.probes = 0
	case StateHalfOpen:
		cb.stats.ConsecutiveSuccesses = 0
		cb.probes = 0
	case StateClosed:
		cb.stats.ConsecutiveFailures = 0
		cb.stats.ConsecutiveSuccesses = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, oldState, newState)
	}
}

// Name returns the breaker name
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats returns a snapshot of the counters
func (cb *CircuitBreaker) GetStats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats
}

// Reset resets the circuit breaker to its initial state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.setState(StateClosed)
	cb.stats = CircuitBreakerStats{}
	cb.nextAttempt = time.Time{}
	cb.probes = 0
}
