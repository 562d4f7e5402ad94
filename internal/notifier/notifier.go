// Package notifier delivers action-tagged messages to a single connection.
// Contract only: "data" vs "error" differ by key name on the same envelope
// (spec §9, "message envelope" design note).
package notifier

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrDeliveryFailed surfaces as WebsocketError per spec §4.3: delivery is
// best-effort but must be awaited, and failure is fatal within the calling
// command's scope.
var ErrDeliveryFailed = errors.New("notifier: delivery failed")

// Action tags used by the core command handlers.
const (
	ActionGetSession      = "getSession"
	ActionJoinGame        = "joinGame"
	ActionDestroySession  = "destroySession"
	ActionGameState       = "gameState"
	ActionSetNickname     = "setNickname"
)

// Message is the single outbound envelope shape: exactly one of Data or
// Error is populated, selected by IsError.
type Message struct {
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	isError bool
}

// Data builds a success message.
func Data(action string, data interface{}) Message {
	return Message{Action: action, Data: data}
}

// Err builds a failure message.
func Err(action string, errPayload interface{}) Message {
	return Message{Action: action, Error: errPayload, isError: true}
}

// IsError reports whether this message represents a failure notification.
func (m Message) IsError() bool { return m.isError }

// MarshalJSON emits {"action", "data"} or {"action", "error"} — never both —
// regardless of how the Message value was constructed.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.isError {
		return json.Marshal(struct {
			Action string      `json:"action"`
			Error  interface{} `json:"error"`
		}{m.Action, m.Error})
	}
	return json.Marshal(struct {
		Action string      `json:"action"`
		Data   interface{} `json:"data"`
	}{m.Action, m.Data})
}

// Notifier pushes a message to a connection's current transport attachment.
// Delivery must be awaited; a failure is reported, not retried, here —
// retrying delivery is the caller's decision, same as any other command-layer
// error.
type Notifier interface {
	Notify(ctx context.Context, connectionID string, msg Message) error
}
