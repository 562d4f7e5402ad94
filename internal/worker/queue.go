package worker

import (
	"time"

	"diceparty/internal/events"
)

// delayedTriggerGrace mirrors the reconnect grace window the event bus's
// delay-queue infrastructure (an SQS delay queue, in the original design)
// is configured with before redelivering a Disconnected event to this
// worker.
const delayedTriggerGrace = 30 * time.Second

// DelayedQueue buffers events consumed off the event bus and redelivers
// each as a Trigger after delayedTriggerGrace, standing in for the managed
// delay-queue infrastructure spec §4.6 assumes sits between the event bus
// and the timeout worker.
type DelayedQueue struct {
	triggers chan Trigger
}

// NewDelayedQueue returns an empty DelayedQueue.
func NewDelayedQueue() *DelayedQueue {
	return &DelayedQueue{triggers: make(chan Trigger, 64)}
}

// Ingest schedules evt for redelivery as a Trigger after the grace window.
func (q *DelayedQueue) Ingest(evt events.Event) {
	time.AfterFunc(delayedTriggerGrace, func() {
		q.triggers <- Trigger{Source: evt.Source, DetailType: evt.DetailType, Detail: evt.Detail}
	})
}

// Triggers returns the channel Worker.Start should consume.
func (q *DelayedQueue) Triggers() <-chan Trigger {
	return q.triggers
}
