package services

import (
	"errors"
	"fmt"
	"time"

	"card-battle-system/engine"
	"card-battle-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TuningService owns the tuning garage (upgrade economy) and the
// tuning duel lifecycle: open → completed | cancelled.
type TuningService struct {
	DB          *gorm.DB
	Catalog     *CatalogService
	Progression *ProgressionService
	Notify      Notifier
}

func NewTuningService(db *gorm.DB, catalog *CatalogService, progression *ProgressionService, notify Notifier) *TuningService {
	return &TuningService{DB: db, Catalog: catalog, Progression: progression, Notify: notify}
}

// AddCarToGarage places an owned car card into the garage at stage 0.
func (s *TuningService) AddCarToGarage(externalUserID, cardID string) (*models.TunedCar, error) {
	card, err := s.Catalog.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card.CardType != models.CardTypeCar {
		return nil, models.ErrNotTunable
	}

	owns, err := s.Catalog.OwnsCard(externalUserID, cardID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, models.ErrNotFound
	}

	tuned := &models.TunedCar{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		CardID:         cardID,
	}
	if err := s.DB.Create(tuned).Error; err != nil {
		return nil, err
	}
	return tuned, nil
}

// GetGarage lists the user's tuned cars.
func (s *TuningService) GetGarage(externalUserID string) ([]models.TunedCar, error) {
	var cars []models.TunedCar
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at ASC").
		Find(&cars).Error
	return cars, err
}

// UpgradeMod buys the next stage of one mod. The whole operation is a
// single check-and-write: the ledger lock serializes concurrent
// spends by the same user, and the stage-guarded update prevents a
// double increment. Returns the new stage.
func (s *TuningService) UpgradeMod(externalUserID, tunedCarID string, kind models.ModKind) (int, error) {
	spec, ok := engine.ModCatalog[kind]
	if !ok {
		return 0, models.ErrUnknownMod
	}

	var newStage int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Progression.LockLedger(tx, externalUserID); err != nil {
			return err
		}

		var car models.TunedCar
		err := tx.Where("id = ? AND external_user_id = ?", tunedCarID, externalUserID).First(&car).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		stage := car.Stage(kind)
		cost, ok := spec.NextUpgradeCost(stage)
		if !ok {
			return models.ErrMaxStageReached
		}

		available, err := s.Progression.AvailableXP(tx, externalUserID)
		if err != nil {
			return err
		}
		if available < cost {
			return models.ErrInsufficientXP
		}

		stageCol := map[models.ModKind]string{
			models.ModEngine: "engine_stage",
			models.ModTurbo:  "turbo_stage",
			models.ModWeight: "weight_stage",
		}[kind]

		res := tx.Model(&models.TunedCar{}).
			Where("id = ? AND "+stageCol+" = ?", car.ID, stage).
			Updates(map[string]interface{}{
				stageCol:      stage + 1,
				"xp_invested": gorm.Expr("xp_invested + ?", cost),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrAlreadyResolved
		}

		newStage = stage + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newStage, nil
}

// RemoveCar takes a car out of the garage and refunds its entire
// accumulated investment. A car referenced by an open challenge stays
// locked until that challenge reaches a terminal state. Returns the
// refunded XP.
func (s *TuningService) RemoveCar(externalUserID, tunedCarID string) (int64, error) {
	var refunded int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Progression.LockLedger(tx, externalUserID); err != nil {
			return err
		}

		var car models.TunedCar
		err := tx.Where("id = ? AND external_user_id = ?", tunedCarID, externalUserID).First(&car).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var active int64
		err = tx.Model(&models.TuningChallenge{}).
			Where("status = ? AND (tuned_car_id = ? OR opponent_tuned_car_id = ?)",
				models.TuningStatusOpen, car.ID, car.ID).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return models.ErrCarLocked
		}

		// Deleting the row releases the invested XP: available XP is
		// derived as total minus the live investment sum.
		if err := tx.Delete(&car).Error; err != nil {
			return err
		}
		refunded = car.XPInvested
		return nil
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// PostChallenge opens a tuning duel for one of the challenger's tuned
// cars in a race category. One open challenge per (user, category).
func (s *TuningService) PostChallenge(externalUserID, tunedCarID string, category models.RaceCategory) (*models.TuningChallenge, error) {
	if !models.ValidRaceCategory(category) {
		return nil, models.ErrInvalidCategory
	}

	var car models.TunedCar
	err := s.DB.Where("id = ? AND external_user_id = ?", tunedCarID, externalUserID).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	var open int64
	err = s.DB.Model(&models.TuningChallenge{}).
		Where("challenger_id = ? AND category = ? AND status = ?",
			externalUserID, category, models.TuningStatusOpen).
		Count(&open).Error
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, models.ErrDuplicateOpenChallenge
	}

	challenge := &models.TuningChallenge{
		ID:           uuid.NewString(),
		ChallengerID: externalUserID,
		TunedCarID:   tunedCarID,
		Category:     category,
		Status:       models.TuningStatusOpen,
	}
	if err := s.DB.Create(challenge).Error; err != nil {
		return nil, err
	}
	return challenge, nil
}

// ListOpenChallenges returns the open duel board, newest first.
func (s *TuningService) ListOpenChallenges(limit int) ([]models.TuningChallenge, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var challenges []models.TuningChallenge
	err := s.DB.Where("status = ?", models.TuningStatusOpen).
		Order("created_at DESC").
		Limit(limit).
		Find(&challenges).Error
	return challenges, err
}

// AcceptChallenge resolves an open duel atomically: both cars are
// scored in the challenge's category, the open → completed transition
// is a status-guarded update, and the winner's XP lands in the same
// transaction. Draws pay nothing.
func (s *TuningService) AcceptChallenge(challengeID, opponentID, opponentTunedCarID string) (*models.TuningChallenge, error) {
	var resolved models.TuningChallenge

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ch models.TuningChallenge
		if err := tx.Where("id = ?", challengeID).First(&ch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if ch.ChallengerID == opponentID {
			return models.ErrCannotAcceptOwnChallenge
		}
		if ch.Status != models.TuningStatusOpen {
			return models.ErrAlreadyResolved
		}

		var opponentCar models.TunedCar
		err := tx.Where("id = ? AND external_user_id = ?", opponentTunedCarID, opponentID).First(&opponentCar).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var challengerCar models.TunedCar
		if err := tx.Where("id = ?", ch.TunedCarID).First(&challengerCar).Error; err != nil {
			return err
		}

		cards, err := s.Catalog.GetCards([]string{challengerCar.CardID, opponentCar.CardID})
		if err != nil {
			return err
		}
		challengerCard := cards[challengerCar.CardID]
		opponentCard := cards[opponentCar.CardID]

		challengerScore := engine.TuningScore(challengerCard, &challengerCar, ch.Category)
		opponentScore := engine.TuningScore(opponentCard, &opponentCar, ch.Category)

		now := time.Now()
		ch.Status = models.TuningStatusCompleted
		ch.OpponentID = &opponentID
		ch.OpponentTunedCarID = &opponentCar.ID
		ch.ChallengerScore = &challengerScore
		ch.OpponentScore = &opponentScore
		ch.CompletedAt = &now
		switch {
		case challengerScore > opponentScore:
			ch.WinnerID = &ch.ChallengerID
		case opponentScore > challengerScore:
			ch.WinnerID = &opponentID
		}

		res := tx.Model(&models.TuningChallenge{}).
			Where("id = ? AND status = ?", ch.ID, models.TuningStatusOpen).
			Updates(&ch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrAlreadyResolved
		}

		if ch.WinnerID != nil {
			if err := s.Progression.AwardXP(tx, *ch.WinnerID, engine.TuningWinXP, "tuning_duel_won"); err != nil {
				return err
			}
		}

		resolved = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := "The duel ended in a draw."
	if resolved.WinnerID != nil {
		result = fmt.Sprintf("Final scores %d : %d.", *resolved.ChallengerScore, *resolved.OpponentScore)
	}
	payload := map[string]interface{}{"challenge_id": resolved.ID, "category": resolved.Category}
	notify(s.Notify, resolved.ChallengerID, "Tuning duel resolved", result, "tuning_resolved", payload)
	notify(s.Notify, opponentID, "Tuning duel resolved", result, "tuning_resolved", payload)

	return &resolved, nil
}

// CancelChallenge withdraws the challenger's own open duel.
func (s *TuningService) CancelChallenge(challengeID, externalUserID string) error {
	var ch models.TuningChallenge
	if err := s.DB.Where("id = ?", challengeID).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	if ch.ChallengerID != externalUserID {
		return models.ErrNotFound
	}
	if ch.Status != models.TuningStatusOpen {
		return models.ErrAlreadyResolved
	}

	res := s.DB.Model(&models.TuningChallenge{}).
		Where("id = ? AND status = ?", challengeID, models.TuningStatusOpen).
		Update("status", models.TuningStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrAlreadyResolved
	}
	return nil
}
