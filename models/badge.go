package models

// BadgeDefinition is a pure predicate over lifetime battle stats.
// Definitions are data; evaluation happens on demand after each
// resolution and is never persisted as config. Granting a badge means
// granting the achievement card carrying the badge's name.
type BadgeDefinition struct {
	Code        string
	Name        string
	Description string
	Rarity      string
	Requires    func(BattleStats) bool
}

// BadgeCatalog lists every badge the engine can award.
var BadgeCatalog = []BadgeDefinition{
	{
		Code:        "FIRST_VICTORY",
		Name:        "First Victory",
		Description: "Win your first card battle",
		Rarity:      "common",
		Requires:    func(s BattleStats) bool { return s.Wins >= 1 },
	},
	{
		Code:        "BATTLE_TESTED",
		Name:        "Battle Tested",
		Description: "Fight 10 card battles",
		Rarity:      "common",
		Requires:    func(s BattleStats) bool { return s.TotalBattles >= 10 },
	},
	{
		Code:        "ROAD_WARRIOR",
		Name:        "Road Warrior",
		Description: "Win 25 card battles",
		Rarity:      "rare",
		Requires:    func(s BattleStats) bool { return s.Wins >= 25 },
	},
	{
		Code:        "CLEAN_SWEEP",
		Name:        "Clean Sweep",
		Description: "Win a battle 3-0",
		Rarity:      "epic",
		Requires:    func(s BattleStats) bool { return s.HasPerfectWin },
	},
	{
		Code:        "PHOTO_FINISH",
		Name:        "Photo Finish",
		Description: "Draw 5 card battles",
		Rarity:      "rare",
		Requires:    func(s BattleStats) bool { return s.Draws >= 5 },
	},
	{
		Code:        "NEVER_BACK_DOWN",
		Name:        "Never Back Down",
		Description: "Fight 50 card battles",
		Rarity:      "epic",
		Requires:    func(s BattleStats) bool { return s.TotalBattles >= 50 },
	},
}
