package command

import (
	"log/slog"

	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// Service holds every singleton collaborator a command handler needs,
// mirroring the teacher's gameService struct (repo + logger fields, one
// constructor, methods grouped by concern).
type Service struct {
	Store     store.ItemStore
	Notifier  notifier.Notifier
	Publisher events.Publisher
	Env       string
	logger    *slog.Logger
}

// New builds a Service. env names the deployment environment prefixed onto
// published event sources (spec §4.4, "<Env>.GameCreated").
func New(itemStore store.ItemStore, n notifier.Notifier, pub events.Publisher, env string) *Service {
	return &Service{
		Store:     itemStore,
		Notifier:  n,
		Publisher: pub,
		Env:       env,
		logger:    slog.Default().With("component", "command"),
	}
}
