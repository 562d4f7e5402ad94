// Package rules implements the dice rule engine: roll generation, per-turn
// classification and round resolution (spec §4.5). The classifier and round
// resolver are pure functions over dice-value histograms, grounded on the
// teacher's internal/game/engine.go win-check style (small pure predicate
// functions over a board/hand snapshot) and ported from the Rust original's
// roll_dice.rs / finish_round.rs, carrying forward the exact face ranges and
// ordering called out in §9 open question 1.
package rules

import (
	"math/rand/v2"

	"diceparty/internal/entity"
)

// deathDiceType escalates with a streak of consecutive wins, per spec §4.5.1.
func deathDiceType(winCounter int32) entity.DiceType {
	switch winCounter {
	case 3, 4:
		return entity.D4
	case 5, 6:
		return entity.D6
	case 7, 8:
		return entity.D8
	case 9, 10:
		return entity.D10
	case 11, 12:
		return entity.D12
	case 13, 14:
		return entity.D20
	default:
		return entity.D10Percentile
	}
}

// randomDiceValue samples a face uniformly. Ranges are one greater than the
// nominal face count for D4/D6/D8/D12/D20 — intentional, see spec §9 open
// question 1, not a bug to "fix" when porting.
func randomDiceValue(diceType entity.DiceType) int {
	switch diceType {
	case entity.D4:
		return rand.IntN(5) + 1
	case entity.D6:
		return rand.IntN(7) + 1
	case entity.D8:
		return rand.IntN(9) + 1
	case entity.D10:
		return rand.IntN(11)
	case entity.D12:
		return rand.IntN(13) + 1
	case entity.D20:
		return rand.IntN(21) + 1
	case entity.D10Percentile:
		return rand.IntN(11) * 10
	default:
		return 0
	}
}

// specialNicknameRolls overwrites dice values positionally for preset test
// nicknames used by QA and demo accounts, ported verbatim from the Rust
// original's adjust_roll_if_special_name.
var specialNicknameRolls = map[string][]int{
	"SNAKE_EYES":        {1, 1, 1},
	"SNAKE_EYES_SAFE":   {1, 1, 6},
	"DUAL":              {2, 2, 2, 2},
	"DUAL_SPECIAL":      {2, 2, 3, 2, 2},
	"SHOWER":            {3, 3, 3},
	"HEAD":              {4, 4, 4, 4, 4},
	"WISH":              {5, 5, 5, 5, 5},
	"POOL":              {6, 6, 6, 6, 6, 6},
	"MR_ELEVEN":         {6, 5},
	"AVERAGE_JOE":       {1, 2, 1},
	"AVERAGE_PETE":      {1, 2, 2},
	"AVERAGE_GREG":      {1, 2, 3},
	"ABOVE_AVERAGE_JOE": {5, 4, 4, 5},
	"LUCKY_JOE":         {6, 6, 5},
	"QUANTAM_COCKRING1": {5, 3},
	"QUANTAM_COCKRING2": {3, 5},
}

// RollDice generates a Roll for one turn action per spec §4.5.1.
func RollDice(prevRolls []entity.Roll, winCounter int32, nickname string) entity.Roll {
	isFirstRoll := len(prevRolls) == 0
	shouldRollDeathDice := isFirstRoll && winCounter >= 3

	var dice entity.Roll
	dice = append(dice, entity.Dice{DiceType: entity.D6, Value: randomDiceValue(entity.D6)})
	if isFirstRoll {
		dice = append(dice, entity.Dice{DiceType: entity.D6, Value: randomDiceValue(entity.D6)})
	}
	if shouldRollDeathDice {
		dt := deathDiceType(winCounter)
		dice = append(dice, entity.Dice{DiceType: dt, Value: randomDiceValue(dt), IsDeathDice: true})
	}

	if preset, ok := specialNicknameRolls[nickname]; ok {
		for i := range dice {
			if i >= len(preset) {
				break
			}
			dice[i].Value = preset[i]
		}
	}

	return dice
}
