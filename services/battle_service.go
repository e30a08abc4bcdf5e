package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"card-battle-system/engine"
	"card-battle-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const (
	// battleTTL is how long a pending challenge stays acceptable.
	battleTTL = 7 * 24 * time.Hour
	// weeklyChallengeLimit caps challenges sent per challenger over a
	// rolling 7 days.
	weeklyChallengeLimit = 3
)

// BattleService drives the card battle lifecycle:
// pending → completed | declined | expired.
type BattleService struct {
	DB          *gorm.DB
	Catalog     *CatalogService
	Progression *ProgressionService
	Badges      *BadgeService
	Notify      Notifier
}

func NewBattleService(db *gorm.DB, catalog *CatalogService, progression *ProgressionService, badges *BadgeService, notify Notifier) *BattleService {
	return &BattleService{
		DB:          db,
		Catalog:     catalog,
		Progression: progression,
		Badges:      badges,
		Notify:      notify,
	}
}

// DealCards samples a fresh hand of 3 distinct car cards for the user.
// Nothing is persisted; the hand only becomes binding when a challenge
// is created with it.
func (s *BattleService) DealCards(externalUserID string) ([]models.Card, error) {
	owned, err := s.Catalog.OwnedCarCards(externalUserID)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return engine.DealCards(owned, rng)
}

// validateDealtHand re-validates a client-echoed hand server-side:
// exactly 3 distinct ids, every one a car card the user owns. The
// dealt list is never trusted as-is.
func (s *BattleService) validateDealtHand(externalUserID string, dealtIDs []string) error {
	if len(dealtIDs) != engine.HandSize {
		return fmt.Errorf("%w: expected %d dealt cards, got %d", models.ErrInvalidAssignment, engine.HandSize, len(dealtIDs))
	}
	seen := make(map[string]bool, engine.HandSize)
	for _, id := range dealtIDs {
		if seen[id] {
			return fmt.Errorf("%w: dealt card %s listed twice", models.ErrInvalidAssignment, id)
		}
		seen[id] = true
	}

	owned, err := s.Catalog.OwnedCarCards(externalUserID)
	if err != nil {
		return err
	}
	ownedSet := make(map[string]bool, len(owned))
	for _, c := range owned {
		ownedSet[c.ID] = true
	}
	for _, id := range dealtIDs {
		if !ownedSet[id] {
			return fmt.Errorf("%w: card %s is not an owned car card", models.ErrInvalidAssignment, id)
		}
	}
	return nil
}

// CreateChallenge opens a pending battle against the opponent with the
// challenger's dealt hand and slot assignment.
func (s *BattleService) CreateChallenge(challengerID, opponentID string, dealtIDs []string, slots models.SlotAssignment) (*models.CardBattle, error) {
	if challengerID == opponentID {
		return nil, models.ErrSelfChallenge
	}

	var sentThisWeek int64
	since := time.Now().Add(-7 * 24 * time.Hour)
	err := s.DB.Model(&models.CardBattle{}).
		Where("challenger_id = ? AND created_at >= ?", challengerID, since).
		Count(&sentThisWeek).Error
	if err != nil {
		return nil, err
	}
	if sentThisWeek >= weeklyChallengeLimit {
		return nil, models.ErrWeeklyLimitExceeded
	}

	if err := s.validateDealtHand(challengerID, dealtIDs); err != nil {
		return nil, err
	}
	if err := engine.ValidateAssignment(dealtIDs, slots); err != nil {
		return nil, err
	}

	battle := &models.CardBattle{
		ID:                 uuid.NewString(),
		ChallengerID:       challengerID,
		OpponentID:         opponentID,
		Status:             models.BattleStatusPending,
		ChallengerDealtIDs: dealtIDs,
		ChallengerSlots:    slots,
		ExpiresAt:          time.Now().Add(battleTTL),
	}
	if err := s.DB.Create(battle).Error; err != nil {
		return nil, err
	}

	notify(s.Notify, opponentID, "New battle challenge!",
		fmt.Sprintf("%s challenged you to a card battle.", s.displayName(challengerID)),
		"battle_challenge", map[string]interface{}{"battle_id": battle.ID})

	return battle, nil
}

// AcceptChallenge resolves a pending battle with the opponent's hand
// and assignment. The transition out of pending is a single atomic
// status-guarded update; only one of two racing accept/decline calls
// can win it.
func (s *BattleService) AcceptChallenge(battleID, opponentID string, dealtIDs []string, slots models.SlotAssignment) (*models.CardBattle, error) {
	var resolved models.CardBattle

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var battle models.CardBattle
		if err := tx.Where("id = ?", battleID).First(&battle).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if battle.OpponentID != opponentID {
			return models.ErrNotFound
		}
		if battle.Status != models.BattleStatusPending {
			return models.ErrAlreadyResolved
		}
		if time.Now().After(battle.ExpiresAt) {
			return models.ErrChallengeExpired
		}

		if err := s.validateDealtHand(opponentID, dealtIDs); err != nil {
			return err
		}
		if err := engine.ValidateAssignment(dealtIDs, slots); err != nil {
			return err
		}

		allIDs := append(append([]string{}, battle.ChallengerDealtIDs...), dealtIDs...)
		cards, err := s.Catalog.GetCards(allIDs)
		if err != nil {
			return err
		}

		outcome := engine.ResolveBattle(
			engine.BattleSide{Slots: battle.ChallengerSlots, Cards: cards},
			engine.BattleSide{Slots: slots, Cards: cards},
		)

		now := time.Now()
		battle.Status = models.BattleStatusCompleted
		battle.OpponentDealtIDs = dealtIDs
		battle.OpponentSlots = slots
		battle.RoundResults = outcome.Rounds
		battle.ChallengerScore = outcome.ChallengerWins
		battle.OpponentScore = outcome.OpponentWins
		battle.CompletedAt = &now
		switch outcome.Winner {
		case engine.MatchChallenger:
			battle.WinnerID = &battle.ChallengerID
		case engine.MatchOpponent:
			battle.WinnerID = &battle.OpponentID
		}

		res := tx.Model(&models.CardBattle{}).
			Where("id = ? AND status = ?", battle.ID, models.BattleStatusPending).
			Updates(&battle)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrAlreadyResolved
		}

		switch outcome.Winner {
		case engine.MatchChallenger:
			if err := s.Progression.AwardXP(tx, battle.ChallengerID, engine.BattleWinXP, "battle_won"); err != nil {
				return err
			}
		case engine.MatchOpponent:
			if err := s.Progression.AwardXP(tx, battle.OpponentID, engine.BattleWinXP, "battle_won"); err != nil {
				return err
			}
		default:
			if err := s.Progression.AwardXP(tx, battle.ChallengerID, engine.BattleDrawXP, "battle_draw"); err != nil {
				return err
			}
			if err := s.Progression.AwardXP(tx, battle.OpponentID, engine.BattleDrawXP, "battle_draw"); err != nil {
				return err
			}
		}

		resolved = battle
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterResolution(&resolved)
	return &resolved, nil
}

// afterResolution emits the notification and badge side effects of a
// committed resolution. None of them can roll it back.
func (s *BattleService) afterResolution(battle *models.CardBattle) {
	result := "It's a draw!"
	if battle.WinnerID != nil {
		result = fmt.Sprintf("%s won %d-%d.", s.displayName(*battle.WinnerID), battle.ChallengerScore, battle.OpponentScore)
	}
	payload := map[string]interface{}{"battle_id": battle.ID}
	notify(s.Notify, battle.ChallengerID, "Battle resolved", result, "battle_resolved", payload)
	notify(s.Notify, battle.OpponentID, "Battle resolved", result, "battle_resolved", payload)

	for _, userID := range []string{battle.ChallengerID, battle.OpponentID} {
		stats, err := s.Progression.BattleStats(userID)
		if err != nil {
			// Badge evaluation is best-effort; the resolution stands.
			continue
		}
		s.Badges.EvaluateBadges(userID, stats)
	}
}

// DeclineChallenge lets the challenged opponent turn down a pending
// battle.
func (s *BattleService) DeclineChallenge(battleID, opponentID string) error {
	var battle models.CardBattle
	if err := s.DB.Where("id = ?", battleID).First(&battle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	if battle.OpponentID != opponentID {
		return models.ErrNotFound
	}
	if battle.Status != models.BattleStatusPending {
		return models.ErrAlreadyResolved
	}
	if time.Now().After(battle.ExpiresAt) {
		return models.ErrChallengeExpired
	}

	res := s.DB.Model(&models.CardBattle{}).
		Where("id = ? AND status = ?", battleID, models.BattleStatusPending).
		Update("status", models.BattleStatusDeclined)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrAlreadyResolved
	}

	notify(s.Notify, battle.ChallengerID, "Challenge declined",
		fmt.Sprintf("%s declined your battle challenge.", s.displayName(opponentID)),
		"battle_declined", map[string]interface{}{"battle_id": battleID})
	return nil
}

// ListBattles returns the user's battles, newest first.
func (s *BattleService) ListBattles(externalUserID string, limit int) ([]models.CardBattle, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var battles []models.CardBattle
	err := s.DB.
		Where("challenger_id = ? OR opponent_id = ?", externalUserID, externalUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&battles).Error
	return battles, err
}

// displayName resolves a user's nick for notification text, title-
// cased for display. Falls back to the raw id when no profile is
// mirrored yet.
func (s *BattleService) displayName(externalUserID string) string {
	var prof models.PlayerProfile
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prof).Error; err != nil {
		return externalUserID
	}
	name := prof.Nick
	if name == "" {
		name = prof.Username
	}
	if name == "" {
		return externalUserID
	}
	return cases.Title(language.English, cases.NoLower).String(name)
}
