package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int32

const (
	CircuitClosed   CircuitState = iota // normal operation
	CircuitOpen                         // failing, reject requests
	CircuitHalfOpen                     // testing if the broker recovered
)

// CircuitBreaker guards the publisher against a broker outage, grounded on
// the teacher's internal/analytics/producer.go circuit breaker (same
// closed/open/half-open transitions, same atomics-plus-mutex split between
// hot-path counters and the cold lastFailure timestamp).
type CircuitBreaker struct {
	state       atomic.Int32
	failures    atomic.Int32
	successes   atomic.Int32
	lastFailure time.Time
	mutex       sync.RWMutex

	failureThreshold int32
	successThreshold int32
	timeout          time.Duration
}

// NewCircuitBreaker returns a closed circuit breaker.
func NewCircuitBreaker(failureThreshold, successThreshold int32, timeout time.Duration) *CircuitBreaker {
	cb := &CircuitBreaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
	}
	cb.state.Store(int32(CircuitClosed))
	return cb
}

// AllowRequest reports whether a publish attempt should proceed.
func (cb *CircuitBreaker) AllowRequest() bool {
	switch CircuitState(cb.state.Load()) {
	case CircuitClosed:
		return true
	case CircuitOpen:
		cb.mutex.RLock()
		lastFailure := cb.lastFailure
		cb.mutex.RUnlock()
		if time.Since(lastFailure) > cb.timeout {
			cb.state.Store(int32(CircuitHalfOpen))
			cb.successes.Store(0)
			return true
		}
		return false
	case CircuitHalfOpen:
		return true
	}
	return false
}

// RecordSuccess registers a successful publish.
func (cb *CircuitBreaker) RecordSuccess() {
	switch CircuitState(cb.state.Load()) {
	case CircuitHalfOpen:
		if cb.successes.Add(1) >= cb.successThreshold {
			cb.state.Store(int32(CircuitClosed))
			cb.failures.Store(0)
		}
	case CircuitClosed:
		cb.failures.Store(0)
	}
}

// RecordFailure registers a failed publish.
func (cb *CircuitBreaker) RecordFailure() {
	state := CircuitState(cb.state.Load())

	cb.mutex.Lock()
	cb.lastFailure = time.Now()
	cb.mutex.Unlock()

	switch state {
	case CircuitHalfOpen:
		cb.state.Store(int32(CircuitOpen))
	case CircuitClosed:
		if cb.failures.Add(1) >= cb.failureThreshold {
			cb.state.Store(int32(CircuitOpen))
		}
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	return CircuitState(cb.state.Load())
}
