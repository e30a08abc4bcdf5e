package models

import "time"

// RaceCategory weights the three stats differently when scoring a
// tuning duel.
type RaceCategory string

const (
	RaceDrag       RaceCategory = "drag"
	RaceHillClimb  RaceCategory = "hill_climb"
	RaceTrack      RaceCategory = "track"
	RaceTimeAttack RaceCategory = "time_attack"
)

// RaceCategories lists every valid race category.
var RaceCategories = [4]RaceCategory{RaceDrag, RaceHillClimb, RaceTrack, RaceTimeAttack}

// ValidRaceCategory reports whether c is one of the four fixed race
// categories.
func ValidRaceCategory(c RaceCategory) bool {
	for _, rc := range RaceCategories {
		if c == rc {
			return true
		}
	}
	return false
}

// ModKind is one of the three upgradeable systems. Each boosts exactly
// one stat: engine→horsepower, turbo→torque, weight→max speed.
type ModKind string

const (
	ModEngine ModKind = "engine"
	ModTurbo  ModKind = "turbo"
	ModWeight ModKind = "weight"
)

// TunedCar is a car card placed in a user's tuning garage. Stages run
// 0..3 per mod; XPInvested always equals the cumulative cost of the
// current stages and is refunded in full when the car is removed.
type TunedCar struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	CardID         string `gorm:"index;not null" json:"card_id"`

	EngineStage int   `gorm:"not null;default:0" json:"engine_stage"`
	TurboStage  int   `gorm:"not null;default:0" json:"turbo_stage"`
	WeightStage int   `gorm:"not null;default:0" json:"weight_stage"`
	XPInvested  int64 `gorm:"not null;default:0" json:"xp_invested"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Stage returns the current stage for the given mod kind.
func (c *TunedCar) Stage(kind ModKind) int {
	switch kind {
	case ModEngine:
		return c.EngineStage
	case ModTurbo:
		return c.TurboStage
	case ModWeight:
		return c.WeightStage
	}
	return 0
}

type TuningChallengeStatus string

const (
	TuningStatusOpen      TuningChallengeStatus = "open"
	TuningStatusCompleted TuningChallengeStatus = "completed"
	TuningStatusCancelled TuningChallengeStatus = "cancelled"
)

// TuningChallenge is an open duel posting resolved atomically when an
// opponent accepts, or cancelled by the challenger while still open.
type TuningChallenge struct {
	ID           string                `gorm:"primaryKey;type:uuid" json:"id"`
	ChallengerID string                `gorm:"index;not null" json:"challenger_id"`
	TunedCarID   string                `gorm:"index;not null" json:"tuned_car_id"`
	Category     RaceCategory          `gorm:"type:varchar(16);not null;index" json:"category"`
	Status       TuningChallengeStatus `gorm:"type:varchar(16);not null;index;default:'open'" json:"status"`

	OpponentID         *string `json:"opponent_id,omitempty"`
	OpponentTunedCarID *string `json:"opponent_tuned_car_id,omitempty"`
	ChallengerScore    *int64  `json:"challenger_score,omitempty"`
	OpponentScore      *int64  `json:"opponent_score,omitempty"`
	// WinnerID is nil for drawn or unresolved duels.
	WinnerID *string `json:"winner_id,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
