package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"diceparty/internal/events"
)

func TestCircuitBreaker_OpensAfterFailureThreshold(t *testing.T) {
	cb := events.NewCircuitBreaker(3, 2, time.Minute)

	assert.True(t, cb.AllowRequest())
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, events.CircuitClosed, cb.State())
	cb.RecordFailure()

	assert.Equal(t, events.CircuitOpen, cb.State())
	assert.False(t, cb.AllowRequest())
}

func TestCircuitBreaker_HalfOpensAfterTimeout(t *testing.T) {
	cb := events.NewCircuitBreaker(1, 1, 10*time.Millisecond)

	cb.RecordFailure()
	assert.Equal(t, events.CircuitOpen, cb.State())
	assert.False(t, cb.AllowRequest())

	time.Sleep(15 * time.Millisecond)

	assert.True(t, cb.AllowRequest())
	assert.Equal(t, events.CircuitHalfOpen, cb.State())
}

func TestCircuitBreaker_ClosesAfterSuccessThresholdInHalfOpen(t *testing.T) {
	cb := events.NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	cb.AllowRequest() // transitions to half-open

	cb.RecordSuccess()
	assert.Equal(t, events.CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, events.CircuitClosed, cb.State())
}

func TestCircuitBreaker_FailureInHalfOpenReopens(t *testing.T) {
	cb := events.NewCircuitBreaker(1, 2, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	cb.AllowRequest() // transitions to half-open

	cb.RecordFailure()
	assert.Equal(t, events.CircuitOpen, cb.State())
}
