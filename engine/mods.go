package engine

import "card-battle-system/models"

// MaxStage is the highest upgrade stage of any mod.
const MaxStage = 3

// ModStage is one purchasable upgrade step.
type ModStage struct {
	Cost  int64
	Bonus int
}

// ModSpec describes the upgrade ladder of one mod kind. Costs and
// bonuses are strictly increasing per stage.
type ModSpec struct {
	Kind   models.ModKind
	Stat   models.BattleCategory
	Stages [MaxStage]ModStage
}

// ModCatalog is the static upgrade table. Engine boosts horsepower,
// turbo boosts torque, weight reduction boosts max speed.
var ModCatalog = map[models.ModKind]ModSpec{
	models.ModEngine: {
		Kind:   models.ModEngine,
		Stat:   models.CategoryPower,
		Stages: [MaxStage]ModStage{{Cost: 50, Bonus: 20}, {Cost: 100, Bonus: 35}, {Cost: 200, Bonus: 60}},
	},
	models.ModTurbo: {
		Kind:   models.ModTurbo,
		Stat:   models.CategoryTorque,
		Stages: [MaxStage]ModStage{{Cost: 40, Bonus: 15}, {Cost: 90, Bonus: 30}, {Cost: 180, Bonus: 50}},
	},
	models.ModWeight: {
		Kind:   models.ModWeight,
		Stat:   models.CategorySpeed,
		Stages: [MaxStage]ModStage{{Cost: 45, Bonus: 10}, {Cost: 95, Bonus: 25}, {Cost: 190, Bonus: 45}},
	},
}

// CumulativeBonus is the total stat bonus unlocked by the given stage.
func (s ModSpec) CumulativeBonus(stage int) int {
	if stage > MaxStage {
		stage = MaxStage
	}
	total := 0
	for i := 0; i < stage; i++ {
		total += s.Stages[i].Bonus
	}
	return total
}

// NextUpgradeCost returns the cost of the next stage, or false when
// the mod is maxed.
func (s ModSpec) NextUpgradeCost(stage int) (int64, bool) {
	if stage < 0 || stage >= MaxStage {
		return 0, false
	}
	return s.Stages[stage].Cost, true
}

// TotalInvestment is the cumulative cost of reaching the given stages.
// A TunedCar's XPInvested must always equal this value.
func TotalInvestment(engineStage, turboStage, weightStage int) int64 {
	var total int64
	for kind, stage := range map[models.ModKind]int{
		models.ModEngine: engineStage,
		models.ModTurbo:  turboStage,
		models.ModWeight: weightStage,
	} {
		spec := ModCatalog[kind]
		if stage > MaxStage {
			stage = MaxStage
		}
		for i := 0; i < stage; i++ {
			total += spec.Stages[i].Cost
		}
	}
	return total
}
