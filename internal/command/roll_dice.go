package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/rules"
)

// RollDiceCommand is the rollDice action (spec §6).
type RollDiceCommand struct {
	ConnectionID string
	SessionID    string
}

// RollDice throws one more roll for the calling player's current turn,
// classifies it, and resolves the round once every player has finished
// (spec §4.6).
func (s *Service) RollDice(ctx context.Context, cmd RollDiceCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: roll dice: load session: %w", err)
	}
	if !sess.InGame() {
		return "No game", nil
	}

	game, err := entity.GameFromDB(ctx, s.Store, *sess.GameID)
	if err != nil {
		return "", fmt.Errorf("command: roll dice: load game: %w", err)
	}
	player := game.FindPlayer(cmd.SessionID)
	if player == nil {
		return "", entity.ErrPlayerNotFound
	}
	if player.Finished {
		return "Player already finished", nil
	}

	isMrEleven := game.MrEleven != nil && *game.MrEleven == player.PlayerID

	roll := rules.RollDice(player.Rolls, player.WinCounter, player.Nickname)
	player.Rolls = append(player.Rolls, roll)

	result := rules.CalculateIndividualResult(player.Rolls, isMrEleven)
	player.Finished = result.TurnFinished
	player.Outcome = result.Note
	player.OutcomeType = result.Type

	game.ModifiedAction = entity.GameActionRollDice
	game.ModifiedBy = cmd.SessionID

	if game.AllFinished() {
		if err := rules.FinishRound(game); err != nil {
			return "", fmt.Errorf("command: roll dice: finish round: %w", err)
		}
		s.logger.Info("round finished", "gameId", game.GameID, "mrEleven", game.MrEleven)
	}

	if err := game.Save(ctx, s.Store); err != nil {
		return "", fmt.Errorf("command: roll dice: save: %w", err)
	}

	if _, err := s.SendGameStateNotification(ctx, SendGameStateNotificationCommand{GameID: game.GameID}); err != nil {
		return "", fmt.Errorf("command: roll dice: send game state: %w", err)
	}
	return "Ok", nil
}
