package command

import (
	"context"
	"fmt"
	"strings"

	"diceparty/internal/entity"
	"diceparty/internal/notifier"
)

// SetNicknameCommand is the setNickname action (spec §6).
type SetNicknameCommand struct {
	ConnectionID string
	SessionID    string
	Nickname     string
	AccountID    *string
}

// reservedNicknames blocks a player from masquerading as the Mr Eleven
// carry-over identity (spec §4.6).
var reservedNicknames = map[string]bool{
	"MR ELEVEN": true,
	"MRELEVEN":  true,
	"MR 11":     true,
	"MR11":      true,
}

// nicknamePayload is the success envelope for the setNickname action.
type nicknamePayload struct {
	Nickname string `json:"nickname"`
	PlayerID string `json:"playerId"`
}

// SetNickname validates and stores a session's nickname (spec §4.6). A
// rejected nickname notifies an error and leaves the session untouched.
func (s *Service) SetNickname(ctx context.Context, cmd SetNicknameCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: set nickname: load session: %w", err)
	}

	if reason, ok := rejectNickname(cmd.Nickname); ok {
		if notifyErr := s.Notifier.Notify(ctx, cmd.ConnectionID, notifier.Err(notifier.ActionSetNickname, reason)); notifyErr != nil {
			return "", fmt.Errorf("command: set nickname: notify error: %w", notifyErr)
		}
		return cmd.SessionID, nil
	}

	sess.Nickname = &cmd.Nickname
	sess.AccountID = cmd.AccountID
	sess.ModifiedAction = entity.ActionSetNickname
	if err := sess.Save(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: set nickname: save: %w", err)
	}

	payload := nicknamePayload{Nickname: cmd.Nickname, PlayerID: cmd.SessionID}
	if err := s.Notifier.Notify(ctx, cmd.ConnectionID, notifier.Data(notifier.ActionSetNickname, payload)); err != nil {
		return "", fmt.Errorf("command: set nickname: notify: %w", err)
	}
	return "Ok", nil
}

func rejectNickname(nickname string) (string, bool) {
	if len(nickname) < 2 {
		return "nickname too short", true
	}
	if len(nickname) > 69 {
		return "nickname too long", true
	}
	if reservedNicknames[strings.ToUpper(strings.TrimSpace(nickname))] {
		return "nickname reserved", true
	}
	return "", false
}
