package models

import (
	"time"
)

type BattleStatus string

const (
	BattleStatusPending   BattleStatus = "pending"
	BattleStatusCompleted BattleStatus = "completed"
	BattleStatusDeclined  BattleStatus = "declined"
	BattleStatusExpired   BattleStatus = "expired"
)

// BattleCategory is one of the three fixed duel categories. Each maps
// to exactly one card stat (power→horsepower, torque→torque,
// speed→max speed).
type BattleCategory string

const (
	CategoryPower  BattleCategory = "power"
	CategoryTorque BattleCategory = "torque"
	CategorySpeed  BattleCategory = "speed"
)

// BattleCategories is the fixed round order.
var BattleCategories = [3]BattleCategory{CategoryPower, CategoryTorque, CategorySpeed}

// SlotAssignment maps the three battle categories onto three distinct
// cards from the player's dealt hand.
type SlotAssignment struct {
	Power  string `json:"power"`
	Torque string `json:"torque"`
	Speed  string `json:"speed"`
}

// CardID returns the card assigned to the given category.
func (a SlotAssignment) CardID(cat BattleCategory) string {
	switch cat {
	case CategoryPower:
		return a.Power
	case CategoryTorque:
		return a.Torque
	case CategorySpeed:
		return a.Speed
	}
	return ""
}

// CardIDs returns the assigned cards in round order.
func (a SlotAssignment) CardIDs() [3]string {
	return [3]string{a.Power, a.Torque, a.Speed}
}

// RoundWinner identifies which side took a round. Rounds with equal
// values are draws and score for neither side.
type RoundWinner string

const (
	RoundWinnerChallenger RoundWinner = "challenger"
	RoundWinnerOpponent   RoundWinner = "opponent"
	RoundWinnerDraw       RoundWinner = "draw"
)

// RoundResult records one resolved round of a battle.
type RoundResult struct {
	Category         BattleCategory `json:"category"`
	ChallengerCardID string         `json:"challenger_card_id"`
	OpponentCardID   string         `json:"opponent_card_id"`
	ChallengerValue  int            `json:"challenger_value"`
	OpponentValue    int            `json:"opponent_value"`
	Winner           RoundWinner    `json:"winner"`
}

// CardBattle is one asynchronous best-of-3 challenge. It is created by
// the challenger, mutated exactly once by the opponent's accept or
// decline, and immutable afterwards except for cleanup.
type CardBattle struct {
	ID           string       `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengerID string       `gorm:"index;not null" json:"challenger_id"`
	OpponentID   string       `gorm:"index;not null" json:"opponent_id"`
	Status       BattleStatus `gorm:"type:varchar(16);not null;index;default:'pending'" json:"status"`

	ChallengerDealtIDs []string       `gorm:"serializer:json;type:jsonb" json:"challenger_dealt_ids"`
	ChallengerSlots    SlotAssignment `gorm:"embedded;embeddedPrefix:challenger_slot_" json:"challenger_slots"`

	OpponentDealtIDs []string       `gorm:"serializer:json;type:jsonb" json:"opponent_dealt_ids,omitempty"`
	OpponentSlots    SlotAssignment `gorm:"embedded;embeddedPrefix:opponent_slot_" json:"opponent_slots,omitempty"`

	RoundResults    []RoundResult `gorm:"serializer:json;type:jsonb" json:"round_results,omitempty"`
	ChallengerScore int           `json:"challenger_score"`
	OpponentScore   int           `json:"opponent_score"`
	// WinnerID is nil for drawn or unresolved battles.
	WinnerID *string `gorm:"index" json:"winner_id,omitempty"`

	ExpiresAt   time.Time  `gorm:"index;not null" json:"expires_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// EffectiveStatus applies the read-time expiry policy: a pending
// battle past its deadline reads as expired even before the sweep job
// has persisted the flip.
func (b *CardBattle) EffectiveStatus(now time.Time) BattleStatus {
	if b.Status == BattleStatusPending && now.After(b.ExpiresAt) {
		return BattleStatusExpired
	}
	return b.Status
}

// BattleStats are a user's lifetime battle aggregates, recomputed on
// demand from completed battles. They feed the badge predicates.
type BattleStats struct {
	Wins          int64 `json:"wins"`
	Losses        int64 `json:"losses"`
	Draws         int64 `json:"draws"`
	TotalBattles  int64 `json:"total_battles"`
	HasPerfectWin bool  `json:"has_perfect_win"`
}
