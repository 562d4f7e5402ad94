package entity

import "errors"

// Errors surfaced by the entity layer, matching the abstract kinds in
// spec §7 that aren't already covered by the store package.
var (
	ErrInvalidGameState = errors.New("entity: invalid game state")
	ErrPlayerNotFound   = errors.New("entity: player not found")
)
