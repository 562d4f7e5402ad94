package notifier

import (
	"context"
	"sync"
)

// Sender delivers one already-encoded frame to a connected transport
// attachment. Concrete senders (a gorilla/websocket connection, an API
// Gateway management-API client) implement this.
type Sender interface {
	Send(ctx context.Context, payload []byte) error
}

// Hub tracks one Sender per connection id, mirroring the connections map
// in the teacher's internal/websocket/hub.go (same mutex-guarded-map shape),
// repurposed here from "broadcast to a game room" to "push to exactly one
// connection", since the spec's Notifier addresses a single connection_id
// per call rather than a room.
type Hub struct {
	mu      sync.RWMutex
	senders map[string]Sender
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{senders: make(map[string]Sender)}
}

// Register attaches a Sender to connectionID, replacing any previous one.
func (h *Hub) Register(connectionID string, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.senders[connectionID] = sender
}

// Unregister detaches connectionID.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.senders, connectionID)
}

// Notify implements Notifier by looking up the registered Sender and
// marshalling msg to it.
func (h *Hub) Notify(ctx context.Context, connectionID string, msg Message) error {
	h.mu.RLock()
	sender, ok := h.senders[connectionID]
	h.mu.RUnlock()
	if !ok {
		return ErrDeliveryFailed
	}

	payload, err := msg.MarshalJSON()
	if err != nil {
		return err
	}
	if err := sender.Send(ctx, payload); err != nil {
		return ErrDeliveryFailed
	}
	return nil
}
