package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/rules"
)

// LeaveGameCommand removes one player from a game (spec §4.6). Raised
// directly, or from DestroySession when the departing session is seated.
type LeaveGameCommand struct {
	GameID    string
	SessionID string
}

// LeaveGame drops SessionID from GameID's roster. The game is deleted once
// empty; otherwise, if every remaining player has finished, the round is
// resolved before saving.
func (s *Service) LeaveGame(ctx context.Context, cmd LeaveGameCommand) (string, error) {
	game, err := entity.GameFromDB(ctx, s.Store, cmd.GameID)
	if err != nil {
		return "", fmt.Errorf("command: leave game: load game: %w", err)
	}
	game.RemovePlayer(cmd.SessionID)
	game.ModifiedAction = entity.GameActionLeaveGame
	game.ModifiedBy = cmd.SessionID

	if len(game.Players) == 0 {
		if err := game.Delete(ctx, s.Store); err != nil {
			return "", fmt.Errorf("command: leave game: delete: %w", err)
		}
		return "Success", nil
	}

	if game.AllFinished() {
		if err := rules.FinishRound(game); err != nil {
			return "", fmt.Errorf("command: leave game: finish round: %w", err)
		}
	}

	if err := game.Save(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: leave game: save: %w", err)
	}

	if _, err := s.SendGameStateNotification(ctx, SendGameStateNotificationCommand{GameID: game.GameID}); err != nil {
		return "", fmt.Errorf("command: leave game: send game state: %w", err)
	}
	return "Success", nil
}
