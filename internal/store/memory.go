package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-memory ItemStore test double. It is guarded by a
// single mutex shared by all kinds (mirroring the connections-map locking in
// internal/websocket/hub.go) and reproduces the conditional-put/delete
// semantics of PostgresStore exactly, so command-layer tests can run
// against it without a database.
type MemoryStore struct {
	mu    sync.Mutex
	items map[Kind]map[string]Item
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: map[Kind]map[string]Item{
			KindConnection: {},
			KindSession:    {},
			KindGame:       {},
		},
	}
}

func (s *MemoryStore) ReadOne(_ context.Context, kind Kind, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[kind][id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return item, nil
}

func (s *MemoryStore) WriteOne(ctx context.Context, op Op) error {
	return writeOne(ctx, s, op)
}

// Write applies every op atomically: all conditions are checked first
// against the current map state, and only if every one holds are the
// mutations applied. This gives the "all or nothing" guarantee without a
// real rollback log, since checks and applies happen under one lock.
func (s *MemoryStore) Write(_ context.Context, ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range ops {
		if err := s.checkCondition(op); err != nil {
			return err
		}
	}
	for _, op := range ops {
		s.apply(op)
	}
	return nil
}

func (s *MemoryStore) checkCondition(op Op) error {
	switch {
	case op.Put != nil:
		existing, ok := s.items[op.Put.Item.Kind][op.Put.Item.ID]
		if op.Put.Item.Version == 0 {
			if ok {
				return ErrConditionalCheckFailed
			}
			return nil
		}
		if !ok || existing.Version != op.Put.Item.Version-1 {
			return ErrConditionalCheckFailed
		}
		return nil
	case op.Delete != nil:
		existing, ok := s.items[op.Delete.Kind][op.Delete.ID]
		if !ok || existing.Version != op.Delete.ExpectedVersion {
			return ErrConditionalCheckFailed
		}
		return nil
	default:
		return ErrConditionalCheckFailed
	}
}

func (s *MemoryStore) apply(op Op) {
	switch {
	case op.Put != nil:
		item := op.Put.Item
		if item.ModifiedAt.IsZero() {
			item.ModifiedAt = time.Now().UTC()
		}
		kindMap := s.items[item.Kind]
		if kindMap == nil {
			kindMap = map[string]Item{}
			s.items[item.Kind] = kindMap
		}
		kindMap[item.ID] = item
	case op.Delete != nil:
		delete(s.items[op.Delete.Kind], op.Delete.ID)
	}
}
