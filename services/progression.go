package services

import (
	"errors"
	"log"
	"math"
	"time"

	"card-battle-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LevelConfig: XP needed for *next* level (e.g., level 1 → 2 needs
// BaseXPPerLevel * 1^1.2).
const BaseXPPerLevel = 100

// xpForNextLevel returns XP required to reach level+1 from the given
// level.
func xpForNextLevel(currentLevel int) int64 {
	if currentLevel < 1 {
		currentLevel = 1
	}
	return int64(float64(BaseXPPerLevel) * math.Pow(float64(currentLevel), 1.2))
}

// LevelForXP derives the display level from lifetime XP.
func LevelForXP(totalXP int64) int {
	level := 1
	var need int64
	for level < 200 {
		need += xpForNextLevel(level)
		if totalXP < need {
			break
		}
		level++
	}
	return level
}

// ProgressionService is the XP ledger. A user's available XP is their
// lifetime total minus the XP committed to tuning upgrades; it must
// never go negative. All mutations run inside the caller's
// transaction.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProfile ensures a PlayerProfile row exists (idempotent).
func (s *ProgressionService) EnsureProfile(externalUserID string) (*models.PlayerProfile, error) {
	var prof models.PlayerProfile
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prof = models.PlayerProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
		}
		if err := s.DB.Create(&prof).Error; err != nil {
			return nil, err
		}
		return &prof, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

// AwardXP credits XP within the given transaction. Rewards are issued
// once at resolution time and never reversed.
func (s *ProgressionService) AwardXP(tx *gorm.DB, externalUserID string, xp int64, reason string) error {
	res := tx.Model(&models.PlayerProfile{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn("total_xp", gorm.Expr("total_xp + ?", xp))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		prof := models.PlayerProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			TotalXP:        xp,
		}
		if err := tx.Create(&prof).Error; err != nil {
			return err
		}
	}

	log.Printf("🎮 XP awarded: %s +%d (reason: %s)", externalUserID, xp, reason)
	return nil
}

// LockLedger serializes concurrent ledger mutations for one user by
// taking a row write-lock on the profile inside tx. Creates the
// profile if it does not exist yet.
func (s *ProgressionService) LockLedger(tx *gorm.DB, externalUserID string) error {
	res := tx.Model(&models.PlayerProfile{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		prof := models.PlayerProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
		}
		if err := tx.Create(&prof).Error; err != nil {
			return err
		}
	}
	return nil
}

// AvailableXP computes total XP minus the sum invested across the
// user's tuned cars. Call with a transaction holding the ledger lock
// when the result gates a spend.
func (s *ProgressionService) AvailableXP(tx *gorm.DB, externalUserID string) (int64, error) {
	var prof models.PlayerProfile
	if err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var invested int64
	err := tx.Model(&models.TunedCar{}).
		Where("external_user_id = ?", externalUserID).
		Select("COALESCE(SUM(xp_invested), 0)").
		Scan(&invested).Error
	if err != nil {
		return 0, err
	}
	return prof.TotalXP - invested, nil
}

// BattleStats recomputes a user's lifetime aggregates from completed
// battles. Evaluated on demand; nothing is persisted.
func (s *ProgressionService) BattleStats(externalUserID string) (models.BattleStats, error) {
	var rows []models.CardBattle
	err := s.DB.
		Select("id", "challenger_id", "opponent_id", "winner_id", "challenger_score", "opponent_score").
		Where("status = ? AND (challenger_id = ? OR opponent_id = ?)",
			models.BattleStatusCompleted, externalUserID, externalUserID).
		Find(&rows).Error
	if err != nil {
		return models.BattleStats{}, err
	}

	var stats models.BattleStats
	for _, b := range rows {
		stats.TotalBattles++
		switch {
		case b.WinnerID == nil:
			stats.Draws++
		case *b.WinnerID == externalUserID:
			stats.Wins++
			winningScore := b.ChallengerScore
			if b.ChallengerID != externalUserID {
				winningScore = b.OpponentScore
			}
			if winningScore == 3 {
				stats.HasPerfectWin = true
			}
		default:
			stats.Losses++
		}
	}
	return stats, nil
}
