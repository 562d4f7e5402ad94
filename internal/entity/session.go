package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"diceparty/internal/store"
)

// SessionAction is the last action that modified a Session, used by the
// timeout worker to tell a live session apart from one pending destruction.
type SessionAction string

const (
	ActionCreateConnection SessionAction = "CreateConnection"
	ActionSetNickname      SessionAction = "SetNickname"
	ActionJoinGame         SessionAction = "JoinGame"
	ActionPendingTimeout   SessionAction = "PendingTimeout"
	ActionReconnected      SessionAction = "Reconnected"
)

// Session is a logical player identity that survives reconnects.
type Session struct {
	SessionID      string        `json:"session_id"`
	ConnectionID   string        `json:"connection_id"`
	AccountID      *string       `json:"account_id,omitempty"`
	Nickname       *string       `json:"nickname,omitempty"`
	GameID         *string       `json:"game_id,omitempty"`
	ModifiedAction SessionAction `json:"modified_action"`
	ModifiedAt     time.Time     `json:"modified_at"`

	version int64
}

// NewSession creates a fresh, unsaved session bound to connectionID.
func NewSession(sessionID, connectionID string) *Session {
	return &Session{
		SessionID:      sessionID,
		ConnectionID:   connectionID,
		ModifiedAction: ActionCreateConnection,
		ModifiedAt:     time.Now().UTC(),
		version:        -1,
	}
}

// SessionFromDB loads the current row for sessionID.
func SessionFromDB(ctx context.Context, s store.ItemStore, sessionID string) (*Session, error) {
	item, err := s.ReadOne(ctx, store.KindSession, sessionID)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(item.Payload, &sess); err != nil {
		return nil, fmt.Errorf("entity: unmarshal session %s: %w", sessionID, err)
	}
	sess.version = item.Version
	return &sess, nil
}

// Version reports the version this session was last read at (-1 if never
// persisted).
func (s *Session) Version() int64 { return s.version }

// HasNickname reports whether a nickname has been set.
func (s *Session) HasNickname() bool { return s.Nickname != nil && *s.Nickname != "" }

// InGame reports whether this session currently belongs to a game.
func (s *Session) InGame() bool { return s.GameID != nil && *s.GameID != "" }

// PutOp builds the conditional Put for saving this session's current
// in-memory state.
func (s *Session) PutOp() (store.Op, error) {
	s.ModifiedAt = time.Now().UTC()
	payload, err := json.Marshal(s)
	if err != nil {
		return store.Op{}, fmt.Errorf("entity: marshal session %s: %w", s.SessionID, err)
	}
	return store.PutOp(store.Item{
		Kind:       store.KindSession,
		ID:         s.SessionID,
		Version:    s.version + 1,
		ModifiedAt: s.ModifiedAt,
		Payload:    payload,
	}), nil
}

// Save writes this session as a single-item batch and advances its local
// version on success.
func (s *Session) Save(ctx context.Context, st store.ItemStore) error {
	op, err := s.PutOp()
	if err != nil {
		return err
	}
	if err := st.WriteOne(ctx, op); err != nil {
		return err
	}
	s.version++
	return nil
}

// DeleteOp builds the conditional Delete for this session's currently
// stored version.
func (s *Session) DeleteOp() store.Op {
	return store.DeleteOp(store.KindSession, s.SessionID, s.version)
}

// Delete removes this session as a single-item batch.
func (s *Session) Delete(ctx context.Context, st store.ItemStore) error {
	return st.WriteOne(ctx, s.DeleteOp())
}
