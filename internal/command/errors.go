// Package command implements one handler per inbound action (spec §4.6):
// CreateConnection, CreateSession, SetSession, SetNickname, CreateGame,
// NewRound, RollDice, SendGameStateNotification, LeaveGame,
// DestroyConnection, DestroySession and CheckSessionTimeout. Each handler
// is a context-threaded method on Service, grounded on the teacher's
// internal/game/service.go (interface-backed struct, slog.Logger field,
// one method per concern).
package command

import (
	"errors"
	"time"
)

// ErrNotAllowed is returned when an authorization precondition fails (spec
// §7), e.g. CreateGame without a nickname. A rejected nickname is not
// reported through it: SetNickname notifies the error and returns nil.
var ErrNotAllowed = errors.New("command: not allowed")

// sessionReconnectGrace is the window between PendingTimeout and
// destruction (spec §6, "Grace window").
const sessionReconnectGrace = 30 * time.Second
