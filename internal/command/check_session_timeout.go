package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diceparty/internal/entity"
	"diceparty/internal/store"
)

// CheckSessionTimeoutCommand is the timeout worker's delayed-trigger input (spec
// §4.6 / §6, "Delayed trigger payload").
type CheckSessionTimeoutCommand struct {
	SessionID string
}

// CheckSessionTimeout confirms a session's disconnect grace window (spec
// §6, 30 seconds) has elapsed before destroying it. Idempotent: a missing,
// non-pending, or still-within-window session is success, not an error.
func (s *Service) CheckSessionTimeout(ctx context.Context, cmd CheckSessionTimeoutCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "Session already deleted", nil
		}
		return "", fmt.Errorf("command: check session timeout: load session: %w", err)
	}

	if sess.ModifiedAction != entity.ActionPendingTimeout {
		return "Session is not pending timeout", nil
	}
	if time.Since(sess.ModifiedAt) < sessionReconnectGrace {
		return "Session is not timed out", nil
	}

	if _, err := s.DestroySession(ctx, DestroySessionCommand{SessionID: cmd.SessionID}); err != nil {
		return "", fmt.Errorf("command: check session timeout: destroy session: %w", err)
	}
	return "Session destroyed", nil
}
