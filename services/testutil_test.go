package services

import (
	"path/filepath"
	"testing"
	"time"

	"card-battle-system/models"
	"card-battle-system/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated file-backed database per test in a temp
// directory, so all pool connections see the same DB. An in-memory DB
// pinned to one connection would deadlock when a service reads through
// the pool while a transaction holds the only connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Card{},
		&models.OwnedCard{},
		&models.PlayerProfile{},
		&models.CardBattle{},
		&models.TunedCar{},
		&models.TuningChallenge{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestCatalog(db *gorm.DB) *CatalogService {
	return NewCatalogService(db, utils.NewTTLCache(time.Minute))
}

func seedCard(t *testing.T, db *gorm.DB, id string, cardType models.CardType, hp, torque, speed int) models.Card {
	t.Helper()
	card := models.Card{
		ID:         id,
		Name:       id,
		Slug:       id,
		CardType:   cardType,
		Horsepower: hp,
		Torque:     torque,
		MaxSpeed:   speed,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("failed to seed card %s: %v", id, err)
	}
	return card
}

func seedOwnership(t *testing.T, db *gorm.DB, userID string, cardIDs ...string) {
	t.Helper()
	for _, cardID := range cardIDs {
		owned := models.OwnedCard{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			CardID:         cardID,
			AcquiredVia:    "pack",
		}
		if err := db.Create(&owned).Error; err != nil {
			t.Fatalf("failed to seed ownership of %s: %v", cardID, err)
		}
	}
}

func seedProfile(t *testing.T, db *gorm.DB, userID, nick string, totalXP int64) {
	t.Helper()
	prof := models.PlayerProfile{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Nick:           nick,
		TotalXP:        totalXP,
	}
	if err := db.Create(&prof).Error; err != nil {
		t.Fatalf("failed to seed profile %s: %v", userID, err)
	}
}

func profileXP(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var prof models.PlayerProfile
	if err := db.Where("external_user_id = ?", userID).First(&prof).Error; err != nil {
		t.Fatalf("failed to load profile %s: %v", userID, err)
	}
	return prof.TotalXP
}
