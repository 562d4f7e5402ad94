package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/notifier"
)

// DestroySessionCommand tears down a session (spec §4.6); CheckSessionTimeout
// raises it once the session's grace window has elapsed.
type DestroySessionCommand struct {
	// ConnectionID is optional: when set, a destroySession acknowledgement
	// is sent to it.
	ConnectionID *string
	SessionID    string
}

// DestroySession removes a session, leaving any game it was seated in
// first.
func (s *Service) DestroySession(ctx context.Context, cmd DestroySessionCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: destroy session: load session: %w", err)
	}

	if sess.InGame() {
		if _, err := s.LeaveGame(ctx, LeaveGameCommand{GameID: *sess.GameID, SessionID: cmd.SessionID}); err != nil {
			return "", fmt.Errorf("command: destroy session: leave game: %w", err)
		}
	}

	if err := sess.Delete(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: destroy session: delete: %w", err)
	}
	s.logger.Info("session destroyed", "sessionId", cmd.SessionID)

	if cmd.ConnectionID != nil {
		if err := s.Notifier.Notify(ctx, *cmd.ConnectionID, notifier.Data(notifier.ActionDestroySession, cmd.SessionID)); err != nil {
			return "", fmt.Errorf("command: destroy session: notify: %w", err)
		}
	}
	return "Ok", nil
}
