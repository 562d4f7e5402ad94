package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// SetSessionCommand is the setSession action: reattach an existing session
// to a fresh connection after reconnect (spec §6).
type SetSessionCommand struct {
	ConnectionID string
	SessionID    string
}

// SetSession binds Connection and Session to each other and marks the
// session Reconnected, in one atomic write (spec §4.6).
func (s *Service) SetSession(ctx context.Context, cmd SetSessionCommand) (string, error) {
	conn, err := entity.ConnectionFromDB(ctx, s.Store, cmd.ConnectionID)
	if err != nil {
		return "", fmt.Errorf("command: set session: load connection: %w", err)
	}
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: set session: load session: %w", err)
	}

	conn.SessionID = &cmd.SessionID
	sess.ConnectionID = cmd.ConnectionID
	sess.ModifiedAction = entity.ActionReconnected

	connPut, err := conn.PutOp()
	if err != nil {
		return "", err
	}
	sessPut, err := sess.PutOp()
	if err != nil {
		return "", err
	}
	if err := s.Store.Write(ctx, []store.Op{connPut, sessPut}); err != nil {
		return "", fmt.Errorf("command: set session: atomic write: %w", err)
	}

	if err := s.Notifier.Notify(ctx, cmd.ConnectionID, notifier.Data(notifier.ActionGetSession, cmd.SessionID)); err != nil {
		return "", fmt.Errorf("command: set session: notify: %w", err)
	}
	return "Ok", nil
}
