package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"diceparty/internal/store"
)

// Connection is one transport attachment; it has at most one Session.
type Connection struct {
	ConnectionID string    `json:"connection_id"`
	SessionID    *string   `json:"session_id,omitempty"`
	ModifiedAt   time.Time `json:"modified_at"`

	// version is the currently-stored version, or -1 if this entity has
	// never been written. PutOp() writes version+1.
	version int64
}

// NewConnection creates a fresh, unsaved connection.
func NewConnection(connectionID string) *Connection {
	return &Connection{
		ConnectionID: connectionID,
		ModifiedAt:   time.Now().UTC(),
		version:      -1,
	}
}

// ConnectionFromDB loads the current row for connectionID.
func ConnectionFromDB(ctx context.Context, s store.ItemStore, connectionID string) (*Connection, error) {
	item, err := s.ReadOne(ctx, store.KindConnection, connectionID)
	if err != nil {
		return nil, err
	}
	var c Connection
	if err := json.Unmarshal(item.Payload, &c); err != nil {
		return nil, fmt.Errorf("entity: unmarshal connection %s: %w", connectionID, err)
	}
	c.version = item.Version
	return &c, nil
}

// Version reports the version this connection was last read at (-1 if
// never persisted).
func (c *Connection) Version() int64 { return c.version }

// PutOp builds the conditional Put for saving this connection's current
// in-memory state.
func (c *Connection) PutOp() (store.Op, error) {
	c.ModifiedAt = time.Now().UTC()
	payload, err := json.Marshal(c)
	if err != nil {
		return store.Op{}, fmt.Errorf("entity: marshal connection %s: %w", c.ConnectionID, err)
	}
	return store.PutOp(store.Item{
		Kind:       store.KindConnection,
		ID:         c.ConnectionID,
		Version:    c.version + 1,
		ModifiedAt: c.ModifiedAt,
		Payload:    payload,
	}), nil
}

// Save writes this connection as a single-item batch and advances its
// local version on success.
func (c *Connection) Save(ctx context.Context, s store.ItemStore) error {
	op, err := c.PutOp()
	if err != nil {
		return err
	}
	if err := s.WriteOne(ctx, op); err != nil {
		return err
	}
	c.version++
	return nil
}

// DeleteOp builds the conditional Delete for this connection's currently
// stored version.
func (c *Connection) DeleteOp() store.Op {
	return store.DeleteOp(store.KindConnection, c.ConnectionID, c.version)
}

// Delete removes this connection as a single-item batch.
func (c *Connection) Delete(ctx context.Context, s store.ItemStore) error {
	return s.WriteOne(ctx, c.DeleteOp())
}
