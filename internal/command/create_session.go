package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"diceparty/internal/entity"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// CreateSessionCommand is the getSession action (spec §6).
type CreateSessionCommand struct {
	ConnectionID string
}

// CreateSession loads the caller's Connection; if it already has a
// session, reuses it; otherwise mints a fresh Session and binds it to the
// Connection in one atomic write (spec §4.6).
func (s *Service) CreateSession(ctx context.Context, cmd CreateSessionCommand) (string, error) {
	conn, err := entity.ConnectionFromDB(ctx, s.Store, cmd.ConnectionID)
	if err != nil {
		return "", fmt.Errorf("command: create session: load connection: %w", err)
	}

	var sessionID string
	if conn.SessionID != nil && *conn.SessionID != "" {
		sessionID = *conn.SessionID
	} else {
		sessionID = uuid.NewString()
		sess := entity.NewSession(sessionID, cmd.ConnectionID)
		sessPut, err := sess.PutOp()
		if err != nil {
			return "", err
		}

		conn.SessionID = &sessionID
		connPut, err := conn.PutOp()
		if err != nil {
			return "", err
		}

		if err := s.Store.Write(ctx, []store.Op{connPut, sessPut}); err != nil {
			return "", fmt.Errorf("command: create session: atomic write: %w", err)
		}
	}

	if err := s.Notifier.Notify(ctx, cmd.ConnectionID, notifier.Data(notifier.ActionGetSession, sessionID)); err != nil {
		return "", fmt.Errorf("command: create session: notify: %w", err)
	}
	return "Ok", nil
}
