package services

import (
	"errors"
	"time"

	"card-battle-system/models"
	"card-battle-system/utils"

	"gorm.io/gorm"
)

// CatalogService reads the card catalog and card ownership. The
// catalog itself is owned by the content service; rows here are
// immutable from this service's point of view, which is why lookups
// go through an injected TTL cache instead of module-level state.
type CatalogService struct {
	DB    *gorm.DB
	cache *utils.TTLCache
}

func NewCatalogService(db *gorm.DB, cache *utils.TTLCache) *CatalogService {
	if cache == nil {
		cache = utils.NewTTLCache(5 * time.Minute)
	}
	return &CatalogService{DB: db, cache: cache}
}

// GetCard fetches one catalog card by id.
func (s *CatalogService) GetCard(id string) (*models.Card, error) {
	if v, ok := s.cache.Get("card:" + id); ok {
		card := v.(models.Card)
		return &card, nil
	}

	var card models.Card
	if err := s.DB.Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	s.cache.Set("card:"+id, card)
	return &card, nil
}

// GetCards fetches catalog cards by id, keyed by id. Missing ids are
// simply absent from the result; the resolver treats their stats as 0.
func (s *CatalogService) GetCards(ids []string) (map[string]models.Card, error) {
	result := make(map[string]models.Card, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.cache.Get("card:" + id); ok {
			result[id] = v.(models.Card)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	var cards []models.Card
	if err := s.DB.Where("id IN ?", missing).Find(&cards).Error; err != nil {
		return nil, err
	}
	for _, c := range cards {
		result[c.ID] = c
		s.cache.Set("card:"+c.ID, c)
	}
	return result, nil
}

// AchievementCardBySlug finds the achievement card carrying a badge's
// name; the badge engine grants copies of it.
func (s *CatalogService) AchievementCardBySlug(cardSlug string) (*models.Card, error) {
	if v, ok := s.cache.Get("badge-card:" + cardSlug); ok {
		card := v.(models.Card)
		return &card, nil
	}

	var card models.Card
	err := s.DB.Where("slug = ? AND card_type = ?", cardSlug, models.CardTypeAchievement).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	s.cache.Set("badge-card:"+cardSlug, card)
	return &card, nil
}

// OwnedCarCards returns the distinct car-type catalog cards a user
// owns at least one copy of. This is the dealing pool.
func (s *CatalogService) OwnedCarCards(externalUserID string) ([]models.Card, error) {
	var cards []models.Card
	err := s.DB.Model(&models.Card{}).
		Distinct("cards.*").
		Joins("INNER JOIN owned_cards ON owned_cards.card_id = cards.id").
		Where("owned_cards.external_user_id = ? AND owned_cards.deleted_at IS NULL AND cards.card_type = ?",
			externalUserID, models.CardTypeCar).
		Find(&cards).Error
	return cards, err
}

// OwnsCard reports whether the user holds at least one copy of the
// card.
func (s *CatalogService) OwnsCard(externalUserID, cardID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.OwnedCard{}).
		Where("external_user_id = ? AND card_id = ?", externalUserID, cardID).
		Count(&count).Error
	return count > 0, err
}

// OwnedAchievementCards lists the badge cards a user holds.
func (s *CatalogService) OwnedAchievementCards(externalUserID string) ([]models.Card, error) {
	var cards []models.Card
	err := s.DB.Model(&models.Card{}).
		Distinct("cards.*").
		Joins("INNER JOIN owned_cards ON owned_cards.card_id = cards.id").
		Where("owned_cards.external_user_id = ? AND owned_cards.deleted_at IS NULL AND cards.card_type = ?",
			externalUserID, models.CardTypeAchievement).
		Find(&cards).Error
	return cards, err
}
