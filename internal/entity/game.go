package entity

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"diceparty/internal/store"
)

// GameAction is the last action that modified a Game.
type GameAction string

const (
	GameActionCreateGame        GameAction = "CreateGame"
	GameActionJoinGame          GameAction = "JoinGame"
	GameActionLeaveGame         GameAction = "LeaveGame"
	GameActionNewRound          GameAction = "NewRound"
	GameActionRollDice          GameAction = "RollDice"
	GameActionStartSpectating   GameAction = "StartSpectating"
	GameActionStopSpectating    GameAction = "StopSpectating"
)

// gameCodeCharset is deliberately restricted to uppercase alphanumeric,
// matching the teacher's generateRoomCode charset (internal/game/service.go)
// narrowed to the 4-character length spec §4.2 calls for.
const gameCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const gameCodeLength = 4

// NewGameCode draws a uniformly random 4-character uppercase alphanumeric
// game code. Collisions are not checked here — see spec §4.2 and §9 open
// question 3; the command layer retries on ConditionalCheckFailed instead.
func NewGameCode() (string, error) {
	code := make([]byte, gameCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(gameCodeCharset))))
		if err != nil {
			return "", fmt.Errorf("entity: generate game code: %w", err)
		}
		code[i] = gameCodeCharset[n.Int64()]
	}
	return string(code), nil
}

// Game is a room of 2..N players playing rounds.
type Game struct {
	GameID         string     `json:"game_id"`
	ModifiedBy     string     `json:"modified_by"`
	ModifiedAction GameAction `json:"modified_action"`
	ModifiedAt     time.Time  `json:"modified_at"`
	RoundFinished  bool       `json:"round_finished"`
	MrEleven       *string    `json:"mr_eleven,omitempty"`
	Players        []Player   `json:"players"`

	version int64
}

// NewGame creates a fresh, unsaved game with a single founding player.
func NewGame(gameID, modifiedBy string, founder Player) *Game {
	return &Game{
		GameID:         gameID,
		ModifiedBy:     modifiedBy,
		ModifiedAction: GameActionCreateGame,
		ModifiedAt:     time.Now().UTC(),
		RoundFinished:  false,
		Players:        []Player{founder},
		version:        -1,
	}
}

// GameFromDB loads the current row for gameID.
func GameFromDB(ctx context.Context, s store.ItemStore, gameID string) (*Game, error) {
	item, err := s.ReadOne(ctx, store.KindGame, gameID)
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(item.Payload, &g); err != nil {
		return nil, fmt.Errorf("entity: unmarshal game %s: %w", gameID, err)
	}
	g.version = item.Version
	return &g, nil
}

// Version reports the version this game was last read at (-1 if never
// persisted).
func (g *Game) Version() int64 { return g.version }

// FindPlayer returns a pointer to the player with the given id, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// RemovePlayer drops playerID from the roster; returns true if it was
// present.
func (g *Game) RemovePlayer(playerID string) bool {
	for i, p := range g.Players {
		if p.PlayerID == playerID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return true
		}
	}
	return false
}

// AllFinished reports whether every player has finished = true.
func (g *Game) AllFinished() bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if !p.Finished {
			return false
		}
	}
	return true
}

// PutOp builds the conditional Put for saving this game's current
// in-memory state.
func (g *Game) PutOp() (store.Op, error) {
	g.ModifiedAt = time.Now().UTC()
	payload, err := json.Marshal(g)
	if err != nil {
		return store.Op{}, fmt.Errorf("entity: marshal game %s: %w", g.GameID, err)
	}
	return store.PutOp(store.Item{
		Kind:       store.KindGame,
		ID:         g.GameID,
		Version:    g.version + 1,
		ModifiedAt: g.ModifiedAt,
		Payload:    payload,
	}), nil
}

// Save writes this game as a single-item batch and advances its local
// version on success.
func (g *Game) Save(ctx context.Context, s store.ItemStore) error {
	op, err := g.PutOp()
	if err != nil {
		return err
	}
	if err := s.WriteOne(ctx, op); err != nil {
		return err
	}
	g.version++
	return nil
}

// DeleteOp builds the conditional Delete for this game's currently stored
// version.
func (g *Game) DeleteOp() store.Op {
	return store.DeleteOp(store.KindGame, g.GameID, g.version)
}

// Delete removes this game as a single-item batch.
func (g *Game) Delete(ctx context.Context, s store.ItemStore) error {
	return s.WriteOne(ctx, g.DeleteOp())
}
