package rules

import (
	"math/rand/v2"

	"diceparty/internal/entity"
)

// playerScore is the per-player working state the round resolver mutates
// across its steps, mirroring the Rust original's PlayerScore/RoundResult
// split so each step (instant-loss filter, Mr Eleven, tie partition) reads
// as a direct transliteration of finish_round.rs.
type playerScore struct {
	note     entity.RollResultNote
	outType  entity.RollResultType
	score    int
	finished bool
}

// FinishRound resolves a round once every player has finished, per spec
// §4.5.3. It is a no-op (returns nil without mutating game) if any player is
// still unfinished — callers are expected to have already checked
// AllFinished before invoking it, same as the command layer in spec §4.6.
func FinishRound(game *entity.Game) error {
	if !game.AllFinished() {
		return nil
	}

	scores := make(map[string]*playerScore, len(game.Players))
	inContention := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		scores[p.PlayerID] = &playerScore{
			note:     p.Outcome,
			outType:  p.OutcomeType,
			score:    p.Score(),
			finished: p.Finished,
		}
		inContention = append(inContention, p.PlayerID)
	}
	roundFinished := true

	// Instant-loss filter: players already finalized as losers never enter
	// the scoring contest.
	inContention = filterOut(inContention, func(id string) bool {
		return scores[id].outType == entity.TypeLoser
	})

	// Mr Eleven rule.
	if len(inContention) > 0 && game.MrEleven != nil {
		if mr, ok := scores[*game.MrEleven]; ok && mr.score == 11 && mr.outType != entity.TypeLoser {
			for _, id := range inContention {
				p := scores[id]
				if id == *game.MrEleven {
					p.note = entity.NoteWinner
					p.outType = entity.TypeWinner
				} else {
					if p.note == entity.NoteNone {
						p.note = entity.NoteSipDrink
					}
					p.outType = entity.TypeLoser
				}
			}
			inContention = nil
		}
	}

	if len(inContention) > 0 {
		max := maxScore(inContention, scores)
		tied := filterIn(inContention, func(id string) bool { return scores[id].score == max })

		switch len(tied) {
		case 1:
			resolveHighest(inContention, scores, max)
		case 3:
			resolveThreeWayTie(inContention, scores, max)
			roundFinished = false
		default:
			resolveTie(inContention, scores, max)
		}
	}

	game.MrEleven = nextMrEleven(game.MrEleven, scores)
	game.RoundFinished = roundFinished

	for i := range game.Players {
		p := &game.Players[i]
		ps := scores[p.PlayerID]
		p.Outcome = ps.note
		p.OutcomeType = ps.outType
		p.Finished = ps.finished
		switch ps.outType {
		case entity.TypeWinner:
			p.WinCounter++
		case entity.TypeNoChange:
			// unchanged
		case entity.TypeLoser:
			p.WinCounter = 0
		default:
			return entity.ErrInvalidGameState
		}
	}
	return nil
}

func resolveHighest(ids []string, scores map[string]*playerScore, max int) {
	for _, id := range ids {
		p := scores[id]
		if p.score == max {
			if p.note == entity.NoteNone {
				p.note = entity.NoteWinner
			}
			p.outType = entity.TypeWinner
		} else {
			if p.note == entity.NoteNone {
				p.note = entity.NoteSipDrink
			}
			p.outType = entity.TypeLoser
		}
	}
}

func resolveThreeWayTie(ids []string, scores map[string]*playerScore, max int) {
	for _, id := range ids {
		p := scores[id]
		if p.score == max {
			if p.note == entity.NoteNone {
				p.note = entity.NoteThreeWayTie
			}
			p.outType = entity.TypeNoChange
			p.finished = false
		} else {
			if p.note == entity.NoteNone {
				p.note = entity.NoteSipDrink
			}
			p.outType = entity.TypeLoser
		}
	}
}

func resolveTie(ids []string, scores map[string]*playerScore, max int) {
	note := entity.NoteTie
	if max == 8 {
		note = entity.NoteCockringHands
	}
	for _, id := range ids {
		p := scores[id]
		if p.score == max {
			if p.note == entity.NoteNone {
				p.note = note
			}
		} else if p.note == entity.NoteNone {
			p.note = entity.NoteSipDrink
		}
		p.outType = entity.TypeLoser
	}
}

// nextMrEleven picks the mr_eleven for the following round per spec §4.5.3
// step 7: retain the incumbent if they still qualify or nobody does, else
// pick uniformly at random among this round's score-11 players.
func nextMrEleven(current *string, scores map[string]*playerScore) *string {
	var candidates []string
	for id, p := range scores {
		if p.score == 11 {
			candidates = append(candidates, id)
		}
	}

	if current != nil {
		for _, id := range candidates {
			if id == *current {
				return current
			}
		}
		if len(candidates) == 0 {
			return current
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	chosen := candidates[rand.IntN(len(candidates))]
	return &chosen
}

func maxScore(ids []string, scores map[string]*playerScore) int {
	max := scores[ids[0]].score
	for _, id := range ids[1:] {
		if scores[id].score > max {
			max = scores[id].score
		}
	}
	return max
}

func filterOut(ids []string, drop func(string) bool) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if !drop(id) {
			out = append(out, id)
		}
	}
	return out
}

func filterIn(ids []string, keep func(string) bool) []string {
	var out []string
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
