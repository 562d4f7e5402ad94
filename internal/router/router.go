// Package router dispatches an inbound {action, data} frame to its command
// handler and wraps the call in the ConditionalCheckFailed retry policy
// (spec §4.6/§7). Grounded on the teacher's internal/websocket/handler.go
// switch-on-message-type dispatch, generalized from a typed MessageType
// enum with per-case fixed handler signatures to a uniform
// json.RawMessage-carrying Frame, since the core commands don't share one
// payload shape.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"diceparty/internal/store"
)

// maxConditionalRetries bounds the retry-on-ConditionalCheckFailed loop
// (spec §4.6, §7).
const maxConditionalRetries = 10

// Frame is one inbound data message: {action, data} (spec §6).
type Frame struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ErrUnknownAction is returned for an action tag with no registered
// handler; surfaces to the caller as a WebsocketError per spec §7.
var ErrUnknownAction = errors.New("router: unknown action")

// Handler runs one command against a decoded data payload and returns the
// handler's success string, same contract as the command package.
type Handler func(ctx context.Context, connectionID string, data json.RawMessage) (string, error)

// Router maps action tags to Handlers.
type Router struct {
	handlers map[string]Handler
}

// New returns an empty Router.
func New() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds action to handler.
func (r *Router) Register(action string, handler Handler) {
	r.handlers[action] = handler
}

// Dispatch runs frame.Action's handler, re-running it on
// ConditionalCheckFailed (spec §4.6 retry policy) for at most
// maxConditionalRetries attempts in all before surfacing that error to the
// caller.
func (r *Router) Dispatch(ctx context.Context, connectionID string, frame Frame) (string, error) {
	handler, ok := r.handlers[frame.Action]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, frame.Action)
	}

	var lastErr error
	for attempt := 0; attempt < maxConditionalRetries; attempt++ {
		result, err := handler(ctx, connectionID, frame.Data)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !errors.Is(err, store.ErrConditionalCheckFailed) {
			return "", err
		}
	}
	return "", fmt.Errorf("router: exceeded %d retries: %w", maxConditionalRetries, lastErr)
}
