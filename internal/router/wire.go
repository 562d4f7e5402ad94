package router

import (
	"context"
	"encoding/json"
	"fmt"

	"diceparty/internal/command"
)

// action tags accepted on the data frame (spec §6).
const (
	ActionGetSession  = "getSession"
	ActionSetSession  = "setSession"
	ActionSetNickname = "setNickname"
	ActionCreateGame  = "createGame"
	ActionNewRound    = "newRound"
	ActionRollDice    = "rollDice"
)

type setSessionData struct {
	SessionID string `json:"sessionId"`
}

type setNicknameData struct {
	Nickname  string  `json:"nickname"`
	SessionID string  `json:"sessionId"`
	AccountID *string `json:"accountId,omitempty"`
}

type createGameData struct {
	SessionID string `json:"sessionId"`
}

type newRoundData struct {
	SessionID string `json:"sessionId"`
}

type rollDiceData struct {
	SessionID string `json:"sessionId"`
}

// Wire registers every core command under its action tag (spec §6).
func Wire(r *Router, svc *command.Service) {
	r.Register(ActionGetSession, func(ctx context.Context, connectionID string, _ json.RawMessage) (string, error) {
		return svc.CreateSession(ctx, command.CreateSessionCommand{ConnectionID: connectionID})
	})

	r.Register(ActionSetSession, func(ctx context.Context, connectionID string, data json.RawMessage) (string, error) {
		var d setSessionData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("router: decode setSession: %w", err)
		}
		return svc.SetSession(ctx, command.SetSessionCommand{ConnectionID: connectionID, SessionID: d.SessionID})
	})

	r.Register(ActionSetNickname, func(ctx context.Context, connectionID string, data json.RawMessage) (string, error) {
		var d setNicknameData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("router: decode setNickname: %w", err)
		}
		return svc.SetNickname(ctx, command.SetNicknameCommand{
			ConnectionID: connectionID,
			SessionID:    d.SessionID,
			Nickname:     d.Nickname,
			AccountID:    d.AccountID,
		})
	})

	r.Register(ActionCreateGame, func(ctx context.Context, connectionID string, data json.RawMessage) (string, error) {
		var d createGameData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("router: decode createGame: %w", err)
		}
		return svc.CreateGame(ctx, command.CreateGameCommand{ConnectionID: connectionID, SessionID: d.SessionID})
	})

	r.Register(ActionNewRound, func(ctx context.Context, connectionID string, data json.RawMessage) (string, error) {
		var d newRoundData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("router: decode newRound: %w", err)
		}
		return svc.NewRound(ctx, command.NewRoundCommand{ConnectionID: connectionID, SessionID: d.SessionID})
	})

	r.Register(ActionRollDice, func(ctx context.Context, connectionID string, data json.RawMessage) (string, error) {
		var d rollDiceData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("router: decode rollDice: %w", err)
		}
		return svc.RollDice(ctx, command.RollDiceCommand{ConnectionID: connectionID, SessionID: d.SessionID})
	})
}
