package rules

import "diceparty/internal/entity"

// Result is the outcome of classifying one turn's accumulated rolls.
type Result struct {
	Note         entity.RollResultNote
	Type         entity.RollResultType
	TurnFinished bool
}

// histograms is the per-turn dice-value census spec §4.5.2 classifies over.
type histograms struct {
	perRoll []map[int]int
	total   map[int]int
	sum     int
}

func countRolls(rolls []entity.Roll) histograms {
	h := histograms{total: make(map[int]int)}
	for _, roll := range rolls {
		counts := make(map[int]int)
		for _, d := range roll {
			counts[d.Value]++
			h.total[d.Value]++
			h.sum += d.Value
		}
		h.perRoll = append(h.perRoll, counts)
	}
	return h
}

// isTurnFinished implements spec §4.5.2's turn-finished predicate: a lone
// roll with no repeated face is finished; otherwise the turn continues only
// while the latest roll shares a face value with the one before it.
func isTurnFinished(h histograms) bool {
	if len(h.perRoll) == 0 {
		return false
	}
	if len(h.perRoll) == 1 {
		for _, count := range h.perRoll[0] {
			if count > 1 {
				return false
			}
		}
		return true
	}
	this := h.perRoll[len(h.perRoll)-1]
	prev := h.perRoll[len(h.perRoll)-2]
	for value, count := range this {
		if count > 0 && prev[value] > 0 {
			return false
		}
	}
	return true
}

func isSnakeEyesFail(h histograms) bool {
	if len(h.perRoll) == 0 || h.perRoll[0][1] < 2 {
		return false
	}
	if h.perRoll[0][1] == 3 {
		return true
	}
	if len(h.perRoll) < 2 {
		return false
	}
	return h.perRoll[1][1] > 0 || h.perRoll[1][2] > 0 || h.perRoll[1][3] > 0
}

func isSnakeEyesSafe(h histograms) bool {
	if len(h.perRoll) == 0 || h.perRoll[0][1] < 2 {
		return false
	}
	if h.perRoll[0][1] == 3 {
		return false
	}
	if len(h.perRoll) < 2 {
		return false
	}
	return h.perRoll[1][4] > 0 || h.perRoll[1][5] > 0 || h.perRoll[1][6] > 0
}

func isAlmostSnakeEyes(h histograms) bool {
	return len(h.perRoll) == 1 && h.perRoll[0][1] == 2
}

// CalculateIndividualResult classifies one turn's rolls (spec §4.5.2).
func CalculateIndividualResult(rolls []entity.Roll, isMrEleven bool) Result {
	h := countRolls(rolls)
	result := Result{Note: entity.NoteNone, Type: entity.TypeNone, TurnFinished: isTurnFinished(h)}

	switch {
	case isSnakeEyesFail(h):
		result.Note, result.Type, result.TurnFinished = entity.NoteFinishDrink, entity.TypeLoser, true
	case isSnakeEyesSafe(h):
		result.Note, result.Type, result.TurnFinished = entity.NoteSipDrink, entity.TypeLoser, true
	case h.total[2] == 4:
		result.Note, result.TurnFinished = entity.NoteDualWield, true
	case h.total[3] == 3:
		result.Note, result.Type, result.TurnFinished = entity.NoteShower, entity.TypeLoser, true
	case h.total[4] == 4:
		result.Note, result.TurnFinished = entity.NoteHeadOnTable, true
	case h.total[5] == 5:
		result.Note, result.TurnFinished = entity.NoteWishPurchase, true
	case h.total[6] == 6:
		result.Note, result.Type, result.TurnFinished = entity.NotePool, entity.TypeLoser, true
	}

	if result.TurnFinished && isMrEleven && h.sum == 11 {
		if result.Note == entity.NoteNone {
			result.Note = entity.NoteWinner
		}
		result.Type = entity.TypeWinner
	}

	if !result.TurnFinished {
		uhOh := isAlmostSnakeEyes(h) ||
			h.total[2] == 3 ||
			h.total[3] == 2 ||
			h.total[4] == 3 ||
			h.total[5] == 4 ||
			h.total[6] == 5
		if uhOh {
			result.Note = entity.NoteUhOh
		}
	}

	return result
}
