package engine

import "card-battle-system/models"

// XP rewards issued once at resolution time, never retried or
// reversed. A drawn battle pays both sides; a drawn tuning duel pays
// nobody.
const (
	BattleWinXP  int64 = 30
	BattleDrawXP int64 = 10
	TuningWinXP  int64 = 30
)

// MatchWinner is the aggregate outcome of a resolved battle.
type MatchWinner int

const (
	MatchDraw MatchWinner = iota
	MatchChallenger
	MatchOpponent
)

// BattleSide pairs a slot assignment with the cards backing it.
type BattleSide struct {
	Slots models.SlotAssignment
	Cards map[string]models.Card
}

// statValue extracts the card stat duelled in the given category. A
// card missing from the lookup counts as 0.
func (s BattleSide) statValue(cat models.BattleCategory) (string, int) {
	id := s.Slots.CardID(cat)
	card, ok := s.Cards[id]
	if !ok {
		return id, 0
	}
	switch cat {
	case models.CategoryPower:
		return id, card.Horsepower
	case models.CategoryTorque:
		return id, card.Torque
	case models.CategorySpeed:
		return id, card.MaxSpeed
	}
	return id, 0
}

// BattleOutcome is the deterministic result of resolving two slot
// assignments.
type BattleOutcome struct {
	Rounds         []models.RoundResult
	ChallengerWins int
	OpponentWins   int
	Winner         MatchWinner
}

// ResolveBattle plays the three rounds in fixed order and counts round
// wins. Strictly greater value wins a round; equal values draw the
// round and score for neither side. The match winner is the side with
// strictly more round wins; equal counts (including all-draws) draw
// the match. There is no tie-break beyond the round count.
func ResolveBattle(challenger, opponent BattleSide) BattleOutcome {
	out := BattleOutcome{Rounds: make([]models.RoundResult, 0, len(models.BattleCategories))}

	for _, cat := range models.BattleCategories {
		cID, cVal := challenger.statValue(cat)
		oID, oVal := opponent.statValue(cat)

		round := models.RoundResult{
			Category:         cat,
			ChallengerCardID: cID,
			OpponentCardID:   oID,
			ChallengerValue:  cVal,
			OpponentValue:    oVal,
			Winner:           models.RoundWinnerDraw,
		}
		switch {
		case cVal > oVal:
			round.Winner = models.RoundWinnerChallenger
			out.ChallengerWins++
		case oVal > cVal:
			round.Winner = models.RoundWinnerOpponent
			out.OpponentWins++
		}
		out.Rounds = append(out.Rounds, round)
	}

	switch {
	case out.ChallengerWins > out.OpponentWins:
		out.Winner = MatchChallenger
	case out.OpponentWins > out.ChallengerWins:
		out.Winner = MatchOpponent
	default:
		out.Winner = MatchDraw
	}
	return out
}

// IsPerfectWin reports whether the outcome was a 3-0 sweep.
func (o BattleOutcome) IsPerfectWin() bool {
	return (o.Winner == MatchChallenger && o.ChallengerWins == len(models.BattleCategories)) ||
		(o.Winner == MatchOpponent && o.OpponentWins == len(models.BattleCategories))
}
