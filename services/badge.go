package services

import (
	"errors"
	"fmt"
	"log"

	"card-battle-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// BadgeService evaluates the badge catalog after each battle
// resolution and grants the matching achievement cards. Granting is
// idempotent: it is gated on whether the user already holds a card
// with the badge's name, not on a separate ledger.
type BadgeService struct {
	DB      *gorm.DB
	Catalog *CatalogService
	Notify  Notifier
}

func NewBadgeService(db *gorm.DB, catalog *CatalogService, notify Notifier) *BadgeService {
	return &BadgeService{DB: db, Catalog: catalog, Notify: notify}
}

// EvaluateBadges checks every catalog predicate against the user's
// lifetime stats and grants any newly satisfied badge once. Failures
// are logged and swallowed; badge grants are a side effect of a
// resolution that has already committed.
func (s *BadgeService) EvaluateBadges(externalUserID string, stats models.BattleStats) []string {
	var awarded []string
	for _, def := range models.BadgeCatalog {
		if !def.Requires(stats) {
			continue
		}
		name, err := s.grantOnce(externalUserID, def)
		if err != nil {
			log.Printf("⚠️ Badge grant %q for %s failed: %v", def.Code, externalUserID, err)
			continue
		}
		if name != "" {
			awarded = append(awarded, name)
		}
	}
	return awarded
}

// grantOnce grants the badge's achievement card unless the user
// already holds one. Returns the badge name when a new card was
// granted.
func (s *BadgeService) grantOnce(externalUserID string, def models.BadgeDefinition) (string, error) {
	card, err := s.Catalog.AchievementCardBySlug(slug.Make(def.Name))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("no achievement card named %q in catalog", def.Name)
		}
		return "", err
	}

	var count int64
	err = s.DB.Model(&models.OwnedCard{}).
		Where("external_user_id = ? AND card_id = ?", externalUserID, card.ID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	owned := models.OwnedCard{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		CardID:         card.ID,
		AcquiredVia:    "badge",
	}
	if err := s.DB.Create(&owned).Error; err != nil {
		return "", err
	}

	log.Printf("🎖️ Badge awarded: %s → %s", def.Name, externalUserID)
	notify(s.Notify, externalUserID, "Badge earned!",
		fmt.Sprintf("You earned the %q badge.", def.Name), "badge_awarded",
		map[string]interface{}{
			"badge_code": def.Code,
			"card_id":    card.ID,
			"rarity":     def.Rarity,
			"icon_url":   card.ImageURL,
		})
	return def.Name, nil
}
