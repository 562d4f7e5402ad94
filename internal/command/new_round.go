package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
)

// NewRoundCommand is the newRound action (spec §6).
type NewRoundCommand struct {
	ConnectionID string
	SessionID    string
}

// NewRound reopens a finished game for another round (spec §4.6). A no-op
// if the session has no game, or the current round hasn't finished yet.
func (s *Service) NewRound(ctx context.Context, cmd NewRoundCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: new round: load session: %w", err)
	}
	if !sess.InGame() {
		return "No game", nil
	}

	game, err := entity.GameFromDB(ctx, s.Store, *sess.GameID)
	if err != nil {
		return "", fmt.Errorf("command: new round: load game: %w", err)
	}
	if !game.RoundFinished {
		return "Round not finished", nil
	}

	game.RoundFinished = false
	game.ModifiedAction = entity.GameActionNewRound
	game.ModifiedBy = cmd.SessionID
	for i := range game.Players {
		game.Players[i].Finished = false
	}
	if err := game.Save(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: new round: save: %w", err)
	}

	if _, err := s.SendGameStateNotification(ctx, SendGameStateNotificationCommand{GameID: game.GameID}); err != nil {
		return "", fmt.Errorf("command: new round: send game state: %w", err)
	}
	return game.GameID, nil
}
