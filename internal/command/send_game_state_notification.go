package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/notifier"
)

// SendGameStateNotificationCommand fans out the current game state to every
// seated player's connection (spec §4.6).
type SendGameStateNotificationCommand struct {
	GameID string
}

type roundState struct {
	Complete bool `json:"complete"`
}

type gameStatePayload struct {
	GameID string     `json:"gameId"`
	Round  roundState `json:"round"`
}

// SendGameStateNotification pushes `gameState` to every player currently
// seated in the game, via their session's bound connection.
func (s *Service) SendGameStateNotification(ctx context.Context, cmd SendGameStateNotificationCommand) (string, error) {
	game, err := entity.GameFromDB(ctx, s.Store, cmd.GameID)
	if err != nil {
		return "", fmt.Errorf("command: send game state: load game: %w", err)
	}

	payload := gameStatePayload{
		GameID: game.GameID,
		Round:  roundState{Complete: game.RoundFinished},
	}
	msg := notifier.Data(notifier.ActionGameState, payload)

	for _, player := range game.Players {
		sess, err := entity.SessionFromDB(ctx, s.Store, player.PlayerID)
		if err != nil {
			return "", fmt.Errorf("command: send game state: load session %s: %w", player.PlayerID, err)
		}
		if err := s.Notifier.Notify(ctx, sess.ConnectionID, msg); err != nil {
			return "", fmt.Errorf("command: send game state: notify %s: %w", sess.ConnectionID, err)
		}
	}
	return "Ok", nil
}
