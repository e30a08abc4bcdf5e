package engine

import (
	"math"

	"card-battle-system/models"
)

// categoryWeights are the fixed per-category stat weights.
type categoryWeights struct {
	HP     float64
	Torque float64
	Speed  float64
}

var raceWeights = map[models.RaceCategory]categoryWeights{
	models.RaceDrag:       {HP: 1.5, Torque: 1.0, Speed: 0.5},
	models.RaceHillClimb:  {HP: 0.5, Torque: 1.5, Speed: 1.0},
	models.RaceTrack:      {HP: 1.0, Torque: 0.5, Speed: 1.5},
	models.RaceTimeAttack: {HP: 1.0, Torque: 1.0, Speed: 1.0},
}

// EffectiveStats returns the card's base stats raised by the
// cumulative bonus of each mod's current stage.
func EffectiveStats(card models.Card, tuned *models.TunedCar) (hp, torque, speed int) {
	hp = card.Horsepower + ModCatalog[models.ModEngine].CumulativeBonus(tuned.EngineStage)
	torque = card.Torque + ModCatalog[models.ModTurbo].CumulativeBonus(tuned.TurboStage)
	speed = card.MaxSpeed + ModCatalog[models.ModWeight].CumulativeBonus(tuned.WeightStage)
	return hp, torque, speed
}

// TuningScore computes the single weighted score of a tuned car in a
// race category, rounded to the nearest integer. Higher score wins;
// equal scores draw.
func TuningScore(card models.Card, tuned *models.TunedCar, category models.RaceCategory) int64 {
	w := raceWeights[category]
	hp, torque, speed := EffectiveStats(card, tuned)
	raw := float64(hp)*w.HP + float64(torque)*w.Torque + float64(speed)*w.Speed
	return int64(math.Round(raw))
}
