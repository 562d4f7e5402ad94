// Package events implements the fire-and-forget lifecycle event publisher
// described in spec §4.4: {source, detail_type, detail} records consumed by
// a delayed-trigger worker.
package events

import (
	"context"
	"encoding/json"
)

// Sources used by the core command handlers (spec §4.4).
const (
	SourceGameCreated = "GameCreated"
	SourceWebsocket   = "Websocket"

	DetailTypeGameCreated  = "GameCreated"
	DetailTypeDisconnected = "Disconnected"
)

// Event is one lifecycle record on the bus.
type Event struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail_type"`
	Detail     json.RawMessage `json:"detail"`
}

// NewEvent JSON-encodes detail into an Event ready to publish.
func NewEvent(env, source, detailType string, detail interface{}) (Event, error) {
	raw, err := json.Marshal(detail)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Source:     env + "." + source,
		DetailType: detailType,
		Detail:     raw,
	}, nil
}

// Publisher publishes an Event. Fire-and-forget but awaited for durable
// acceptance — a failed Publish surfaces as EventPublishingError to the
// caller (spec §7).
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// GameCreatedDetail is the detail payload for a GameCreated event.
type GameCreatedDetail struct {
	GameID string `json:"game_id"`
}

// DisconnectedDetail is the detail payload for a Websocket/Disconnected
// event.
type DisconnectedDetail struct {
	SessionID string `json:"session_id"`
}
