package services

import (
	"errors"
	"testing"

	"card-battle-system/engine"
	"card-battle-system/models"

	"gorm.io/gorm"
)

func newTuningFixture(t *testing.T) (*TuningService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	catalog := newTestCatalog(db)
	progression := NewProgressionService(db)
	svc := NewTuningService(db, catalog, progression, nil)

	seedCard(t, db, "gt", models.CardTypeCar, 300, 400, 250)
	seedCard(t, db, "compact", models.CardTypeCar, 150, 200, 180)
	seedCard(t, db, "trophy", models.CardTypeAchievement, 0, 0, 0)
	seedOwnership(t, db, "alice", "gt")
	seedOwnership(t, db, "bob", "compact")
	return svc, db
}

func availableXP(t *testing.T, svc *TuningService, userID string) int64 {
	t.Helper()
	available, err := svc.Progression.AvailableXP(svc.DB, userID)
	if err != nil {
		t.Fatalf("AvailableXP failed: %v", err)
	}
	return available
}

func TestAddCarToGarage(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if car.EngineStage != 0 || car.TurboStage != 0 || car.WeightStage != 0 {
		t.Fatalf("new garage car must be stock, got %+v", car)
	}
	if car.XPInvested != 0 {
		t.Fatalf("new garage car must have zero investment, got %d", car.XPInvested)
	}
}

func TestAddCarRejectsAchievementCard(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedOwnership(t, db, "alice", "trophy")

	if _, err := svc.AddCarToGarage("alice", "trophy"); !errors.Is(err, models.ErrNotTunable) {
		t.Fatalf("expected ErrNotTunable, got %v", err)
	}
}

func TestAddCarRequiresOwnership(t *testing.T) {
	svc, _ := newTuningFixture(t)

	if _, err := svc.AddCarToGarage("alice", "compact"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Walks the ledger through upgrades and removal, checking the
// invariant total − available == invested after every step.
func TestLedgerInvariantAcrossUpgrades(t *testing.T) {
	svc, db := newTuningFixture(t)

	engineCosts := engine.ModCatalog[models.ModEngine].Stages
	total := engineCosts[0].Cost + engineCosts[1].Cost // exactly two stages affordable
	seedProfile(t, db, "alice", "Alice", total)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	checkInvariant := func(step string, wantInvested int64) {
		t.Helper()
		available := availableXP(t, svc, "alice")
		if available < 0 {
			t.Fatalf("%s: available XP went negative: %d", step, available)
		}
		if total-available != wantInvested {
			t.Fatalf("%s: invested mismatch: total=%d available=%d want invested=%d",
				step, total, available, wantInvested)
		}
	}

	checkInvariant("after add", 0)

	stage, err := svc.UpgradeMod("alice", car.ID, models.ModEngine)
	if err != nil {
		t.Fatalf("first upgrade failed: %v", err)
	}
	if stage != 1 {
		t.Fatalf("expected stage 1, got %d", stage)
	}
	checkInvariant("after first upgrade", engineCosts[0].Cost)

	stage, err = svc.UpgradeMod("alice", car.ID, models.ModEngine)
	if err != nil {
		t.Fatalf("second upgrade failed: %v", err)
	}
	if stage != 2 {
		t.Fatalf("expected stage 2, got %d", stage)
	}
	checkInvariant("after second upgrade", total)
	if got := availableXP(t, svc, "alice"); got != 0 {
		t.Fatalf("expected 0 available XP, got %d", got)
	}

	// Third stage costs more than what is left.
	if _, err := svc.UpgradeMod("alice", car.ID, models.ModEngine); !errors.Is(err, models.ErrInsufficientXP) {
		t.Fatalf("expected ErrInsufficientXP, got %v", err)
	}
	checkInvariant("after rejected upgrade", total)

	refunded, err := svc.RemoveCar("alice", car.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if refunded != total {
		t.Fatalf("expected full refund of %d, got %d", total, refunded)
	}
	if got := availableXP(t, svc, "alice"); got != total {
		t.Fatalf("expected available XP restored to %d, got %d", total, got)
	}
}

func TestUpgradeModMaxStage(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 10000)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	for i := 0; i < engine.MaxStage; i++ {
		if _, err := svc.UpgradeMod("alice", car.ID, models.ModTurbo); err != nil {
			t.Fatalf("upgrade %d failed: %v", i+1, err)
		}
	}
	if _, err := svc.UpgradeMod("alice", car.ID, models.ModTurbo); !errors.Is(err, models.ErrMaxStageReached) {
		t.Fatalf("expected ErrMaxStageReached, got %v", err)
	}
}

func TestUpgradeModUnknownKind(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 1000)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.UpgradeMod("alice", car.ID, models.ModKind("nitro")); !errors.Is(err, models.ErrUnknownMod) {
		t.Fatalf("expected ErrUnknownMod, got %v", err)
	}
}

func TestRemoveCarLockedByOpenChallenge(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	challenge, err := svc.PostChallenge("alice", car.ID, models.RaceDrag)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}

	if _, err := svc.RemoveCar("alice", car.ID); !errors.Is(err, models.ErrCarLocked) {
		t.Fatalf("expected ErrCarLocked, got %v", err)
	}

	if err := svc.CancelChallenge(challenge.ID, "alice"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.RemoveCar("alice", car.ID); err != nil {
		t.Fatalf("remove after cancel failed: %v", err)
	}
}

func TestPostChallengeDuplicateOpen(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.PostChallenge("alice", car.ID, models.RaceTrack); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := svc.PostChallenge("alice", car.ID, models.RaceTrack); !errors.Is(err, models.ErrDuplicateOpenChallenge) {
		t.Fatalf("expected ErrDuplicateOpenChallenge, got %v", err)
	}
	// A different category is fine.
	if _, err := svc.PostChallenge("alice", car.ID, models.RaceDrag); err != nil {
		t.Fatalf("post in other category failed: %v", err)
	}
}

func TestPostChallengeInvalidCategory(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.PostChallenge("alice", car.ID, models.RaceCategory("downhill")); !errors.Is(err, models.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAcceptOwnChallenge(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)

	car, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	challenge, err := svc.PostChallenge("alice", car.ID, models.RaceDrag)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := svc.AcceptChallenge(challenge.ID, "alice", car.ID); !errors.Is(err, models.ErrCannotAcceptOwnChallenge) {
		t.Fatalf("expected ErrCannotAcceptOwnChallenge, got %v", err)
	}
}

func TestAcceptChallengeResolvesDuel(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)
	seedProfile(t, db, "bob", "Bob", 0)

	aliceCar, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	bobCar, err := svc.AddCarToGarage("bob", "compact")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	challenge, err := svc.PostChallenge("alice", aliceCar.ID, models.RaceDrag)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resolved, err := svc.AcceptChallenge(challenge.ID, "bob", bobCar.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// gt: 300*1.5 + 400 + 250*0.5 = 975; compact: 150*1.5 + 200 + 180*0.5 = 515.
	if resolved.ChallengerScore == nil || *resolved.ChallengerScore != 975 {
		t.Fatalf("expected challenger score 975, got %v", resolved.ChallengerScore)
	}
	if resolved.OpponentScore == nil || *resolved.OpponentScore != 515 {
		t.Fatalf("expected opponent score 515, got %v", resolved.OpponentScore)
	}
	if resolved.WinnerID == nil || *resolved.WinnerID != "alice" {
		t.Fatalf("expected alice to win, got %v", resolved.WinnerID)
	}
	if resolved.Status != models.TuningStatusCompleted {
		t.Fatalf("expected completed, got %s", resolved.Status)
	}

	if got := profileXP(t, db, "alice"); got != engine.TuningWinXP {
		t.Fatalf("winner must earn %d XP, got %d", engine.TuningWinXP, got)
	}
	if got := profileXP(t, db, "bob"); got != 0 {
		t.Fatalf("loser must earn 0 XP, got %d", got)
	}

	// Terminal challenge no longer locks either car.
	if _, err := svc.RemoveCar("alice", aliceCar.ID); err != nil {
		t.Fatalf("remove after resolution failed: %v", err)
	}
}

func TestAcceptChallengeDrawPaysNothing(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)
	seedProfile(t, db, "bob", "Bob", 0)
	seedOwnership(t, db, "bob", "gt") // same model, same score

	aliceCar, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	bobCar, err := svc.AddCarToGarage("bob", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	challenge, err := svc.PostChallenge("alice", aliceCar.ID, models.RaceTimeAttack)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resolved, err := svc.AcceptChallenge(challenge.ID, "bob", bobCar.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if resolved.WinnerID != nil {
		t.Fatalf("expected draw, got winner %v", *resolved.WinnerID)
	}
	// Unlike battle draws, tuning draws grant no XP to either side.
	if got := profileXP(t, db, "alice"); got != 0 {
		t.Fatalf("tuning draw must pay nothing, challenger has %d", got)
	}
	if got := profileXP(t, db, "bob"); got != 0 {
		t.Fatalf("tuning draw must pay nothing, opponent has %d", got)
	}
}

func TestAcceptChallengeOnlyOnceTuning(t *testing.T) {
	svc, db := newTuningFixture(t)
	seedProfile(t, db, "alice", "Alice", 0)
	seedProfile(t, db, "bob", "Bob", 0)

	aliceCar, err := svc.AddCarToGarage("alice", "gt")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	bobCar, err := svc.AddCarToGarage("bob", "compact")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	challenge, err := svc.PostChallenge("alice", aliceCar.ID, models.RaceHillClimb)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := svc.AcceptChallenge(challenge.ID, "bob", bobCar.ID); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := svc.AcceptChallenge(challenge.ID, "bob", bobCar.ID); !errors.Is(err, models.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if err := svc.CancelChallenge(challenge.ID, "alice"); !errors.Is(err, models.ErrAlreadyResolved) {
		t.Fatalf("cancel after resolve: expected ErrAlreadyResolved, got %v", err)
	}
}
