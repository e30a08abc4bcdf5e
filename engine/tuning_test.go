package engine

import (
	"testing"

	"card-battle-system/models"
)

func TestTuningScoreWeightTable(t *testing.T) {
	card := carCard("gt", 300, 400, 250)
	stock := &models.TunedCar{}

	tests := []struct {
		category models.RaceCategory
		want     int64
	}{
		{models.RaceDrag, 975},       // 300*1.5 + 400*1.0 + 250*0.5
		{models.RaceHillClimb, 1000}, // 300*0.5 + 400*1.5 + 250*1.0
		{models.RaceTrack, 875},      // 300*1.0 + 400*0.5 + 250*1.5
		{models.RaceTimeAttack, 950}, // 300 + 400 + 250
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := TuningScore(card, stock, tt.category); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTuningScoreRoundsHalfAwayFromZero(t *testing.T) {
	// 1*1.5 + 0 + 0 = 1.5 → rounds to 2.
	card := carCard("tiny", 1, 0, 0)
	if got := TuningScore(card, &models.TunedCar{}, models.RaceDrag); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestTuningScoreAppliesModBonuses(t *testing.T) {
	card := carCard("gt", 300, 400, 250)
	tuned := &models.TunedCar{EngineStage: 2, TurboStage: 1, WeightStage: 3}

	hp, torque, speed := EffectiveStats(card, tuned)
	if hp != 300+ModCatalog[models.ModEngine].CumulativeBonus(2) {
		t.Fatalf("unexpected effective hp %d", hp)
	}
	if torque != 400+ModCatalog[models.ModTurbo].CumulativeBonus(1) {
		t.Fatalf("unexpected effective torque %d", torque)
	}
	if speed != 250+ModCatalog[models.ModWeight].CumulativeBonus(3) {
		t.Fatalf("unexpected effective speed %d", speed)
	}
}

// Every race category weights every stat positively, so raising any
// mod stage must strictly increase the score in every category.
func TestTuningScoreMonotonicInStages(t *testing.T) {
	card := carCard("gt", 300, 400, 250)

	bump := []func(c *models.TunedCar){
		func(c *models.TunedCar) { c.EngineStage++ },
		func(c *models.TunedCar) { c.TurboStage++ },
		func(c *models.TunedCar) { c.WeightStage++ },
	}
	names := []string{"engine", "turbo", "weight"}

	for _, category := range models.RaceCategories {
		for i, raise := range bump {
			tuned := &models.TunedCar{}
			prev := TuningScore(card, tuned, category)
			for stage := 1; stage <= MaxStage; stage++ {
				raise(tuned)
				next := TuningScore(card, tuned, category)
				if next <= prev {
					t.Errorf("%s/%s stage %d: score %d did not increase from %d",
						category, names[i], stage, next, prev)
				}
				prev = next
			}
		}
	}
}
