package command

import (
	"context"
	"fmt"

	"diceparty/internal/entity"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
)

// CreateGameCommand is the createGame action (spec §6).
type CreateGameCommand struct {
	ConnectionID string
	SessionID    string
}

// CreateGame opens a new game founded by the calling session (spec §4.6).
// Collisions in the generated game code surface as ConditionalCheckFailed
// and are retried by the router (§7), not handled here.
func (s *Service) CreateGame(ctx context.Context, cmd CreateGameCommand) (string, error) {
	sess, err := entity.SessionFromDB(ctx, s.Store, cmd.SessionID)
	if err != nil {
		return "", fmt.Errorf("command: create game: load session: %w", err)
	}
	if !sess.HasNickname() {
		return "", fmt.Errorf("%w: session has no nickname", ErrNotAllowed)
	}
	if sess.InGame() {
		return "Already in game", nil
	}

	gameCode, err := entity.NewGameCode()
	if err != nil {
		return "", fmt.Errorf("command: create game: generate code: %w", err)
	}

	founder := entity.NewPlayer(cmd.SessionID, sess.AccountID, *sess.Nickname)
	game := entity.NewGame(gameCode, cmd.SessionID, founder)
	gamePut, err := game.PutOp()
	if err != nil {
		return "", err
	}

	sess.GameID = &gameCode
	sess.ModifiedAction = entity.ActionJoinGame
	sessPut, err := sess.PutOp()
	if err != nil {
		return "", err
	}

	if err := s.Store.Write(ctx, []store.Op{gamePut, sessPut}); err != nil {
		return "", fmt.Errorf("command: create game: atomic write: %w", err)
	}

	if err := s.Notifier.Notify(ctx, cmd.ConnectionID, notifier.Data(notifier.ActionJoinGame, gameCode)); err != nil {
		return "", fmt.Errorf("command: create game: notify: %w", err)
	}

	if _, err := s.SendGameStateNotification(ctx, SendGameStateNotificationCommand{GameID: gameCode}); err != nil {
		return "", fmt.Errorf("command: create game: send game state: %w", err)
	}

	evt, err := events.NewEvent(s.Env, events.SourceGameCreated, events.DetailTypeGameCreated, events.GameCreatedDetail{GameID: gameCode})
	if err != nil {
		return "", fmt.Errorf("command: create game: build event: %w", err)
	}
	if err := s.Publisher.Publish(ctx, evt); err != nil {
		return "", fmt.Errorf("command: create game: publish: %w", err)
	}

	s.logger.Info("game created", "gameId", gameCode, "founder", cmd.SessionID)
	return "Ok", nil
}
