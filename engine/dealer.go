package engine

import (
	"math/rand"

	"card-battle-system/models"
)

// HandSize is the number of cards dealt for a battle.
const HandSize = 3

// DealCards samples HandSize distinct car cards uniformly at random
// from the player's collection (partial Fisher–Yates, take 3). Cards
// sharing an id count once: owning three copies of one card is not
// enough to battle. The call is side-effect-free; dealing again yields
// a fresh independent sample.
func DealCards(owned []models.Card, rng *rand.Rand) ([]models.Card, error) {
	pool := make([]models.Card, 0, len(owned))
	seen := make(map[string]bool, len(owned))
	for _, c := range owned {
		if c.CardType != models.CardTypeCar || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		pool = append(pool, c)
	}
	if len(pool) < HandSize {
		return nil, models.ErrInsufficientCards
	}

	for i := 0; i < HandSize; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:HandSize:HandSize], nil
}
