package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/events"
	"diceparty/internal/store"
)

// DestroyConnectionCommand is raised by the transport's synthesized
// Disconnect event.
type DestroyConnectionCommand struct {
	ConnectionID string
}

// DestroyConnection removes a dropped transport attachment (spec §4.6). If
// it was bound to a session, the session enters PendingTimeout and a
// Websocket/Disconnected event is published so the delayed-trigger worker
// can later confirm destruction.
func (s *Service) DestroyConnection(ctx context.Context, cmd DestroyConnectionCommand) (string, error) {
	conn, err := entity.ConnectionFromDB(ctx, s.Store, cmd.ConnectionID)
	if err != nil {
		return "", fmt.Errorf("command: destroy connection: load connection: %w", err)
	}

	if conn.SessionID == nil || *conn.SessionID == "" {
		if err := conn.Delete(ctx, s.Store); err != nil {
			return "", fmt.Errorf("command: destroy connection: delete: %w", err)
		}
		return "Ok", nil
	}

	sess, err := entity.SessionFromDB(ctx, s.Store, *conn.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: destroy connection: load session: %w", err)
	}
	sess.ModifiedAction = entity.ActionPendingTimeout
	sessPut, err := sess.PutOp()
	if err != nil {
		return "", err
	}

	if err := s.Store.Write(ctx, []store.Op{sessPut, conn.DeleteOp()}); err != nil {
		return "", fmt.Errorf("command: destroy connection: atomic write: %w", err)
	}

	evt, err := events.NewEvent(s.Env, events.SourceWebsocket, events.DetailTypeDisconnected,
		events.DisconnectedDetail{SessionID: sess.SessionID})
	if err != nil {
		return "", fmt.Errorf("command: destroy connection: build event: %w", err)
	}
	if err := s.Publisher.Publish(ctx, evt); err != nil {
		return "", fmt.Errorf("command: destroy connection: publish: %w", err)
	}
	return "Ok", nil
}
