package engine

import (
	"fmt"

	"card-battle-system/models"
)

// ValidateAssignment checks that an assignment is a bijection from the
// three battle categories onto the dealt hand: every slot filled, the
// three cards pairwise distinct, and every card a member of the dealt
// set. The returned error wraps models.ErrInvalidAssignment and names
// the violated rule.
func ValidateAssignment(dealt []string, a models.SlotAssignment) error {
	dealtSet := make(map[string]bool, len(dealt))
	for _, id := range dealt {
		dealtSet[id] = true
	}

	used := make(map[string]models.BattleCategory, HandSize)
	for _, cat := range models.BattleCategories {
		id := a.CardID(cat)
		if id == "" {
			return fmt.Errorf("%w: no card assigned to %s", models.ErrInvalidAssignment, cat)
		}
		if prev, ok := used[id]; ok {
			return fmt.Errorf("%w: card %s assigned to both %s and %s", models.ErrInvalidAssignment, id, prev, cat)
		}
		if !dealtSet[id] {
			return fmt.Errorf("%w: card %s is not part of the dealt hand", models.ErrInvalidAssignment, id)
		}
		used[id] = cat
	}
	return nil
}
