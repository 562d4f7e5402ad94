package command_test

import (
	"diceparty/internal/command"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// newTestService wires a Service against the in-memory test doubles for
// store, notifier and publisher, mirroring the teacher's createTestEngine
// helper in internal/game/engine_test.go.
func newTestService() (*command.Service, *store.MemoryStore, *notifier.MemoryNotifier, *events.MemoryPublisher) {
	st := store.NewMemoryStore()
	n := notifier.NewMemoryNotifier()
	pub := events.NewMemoryPublisher()
	svc := command.New(st, n, pub, "test")
	return svc, st, n, pub
}
