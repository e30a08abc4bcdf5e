// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"card-battle-system/models"
	"card-battle-system/utils"

	"github.com/go-co-op/gocron/v2"
)

const (
	expirySweepInterval = 5 * time.Minute
	archiveInterval     = 24 * time.Hour
	// archiveRetention is how long terminal battles stay queryable
	// before the cleanup job moves them to object storage.
	archiveRetention = 90 * 24 * time.Hour
)

// StartMaintenanceJobs runs the battle housekeeping jobs: the expiry
// sweep persisting the read-time expiry policy, and the archive job
// moving old terminal battles to R2 before deleting their rows.
func (s *BattleService) StartMaintenanceJobs() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(expirySweepInterval),
		gocron.NewTask(s.SweepExpiredBattles),
	)
	_, _ = sched.NewJob(
		gocron.DurationJob(archiveInterval),
		gocron.NewTask(s.ArchiveResolvedBattles),
	)
}

// SweepExpiredBattles flips overdue pending battles to expired. The
// read-time guard in accept/decline is the authority; this sweep just
// persists what readers would already report.
func (s *BattleService) SweepExpiredBattles() {
	res := s.DB.Model(&models.CardBattle{}).
		Where("status = ? AND expires_at <= ?", models.BattleStatusPending, time.Now()).
		Update("status", models.BattleStatusExpired)
	if res.Error != nil {
		log.Printf("[Sweep] DB error: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Expired %d overdue battle(s)", res.RowsAffected)
	}
}

// ArchiveResolvedBattles copies terminal battles past the retention
// window to object storage as JSON, then hard-deletes the rows. Rows
// are kept when the upload fails; the next run retries them.
func (s *BattleService) ArchiveResolvedBattles() {
	cutoff := time.Now().Add(-archiveRetention)

	var battles []models.CardBattle
	err := s.DB.
		Where("status IN ? AND updated_at < ?",
			[]models.BattleStatus{models.BattleStatusCompleted, models.BattleStatusDeclined, models.BattleStatusExpired},
			cutoff).
		Limit(1000).
		Find(&battles).Error
	if err != nil {
		log.Printf("[Archive] DB error: %v", err)
		return
	}
	if len(battles) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key := "battles/archive/" + time.Now().UTC().Format("2006-01-02T15-04-05") + ".json"
	url, err := utils.UploadJSONToR2(ctx, key, battles)
	if err != nil {
		log.Printf("[Archive] Upload failed, keeping %d battle(s): %v", len(battles), err)
		return
	}

	ids := make([]string, len(battles))
	for i, b := range battles {
		ids[i] = b.ID
	}
	if err := s.DB.Where("id IN ?", ids).Delete(&models.CardBattle{}).Error; err != nil {
		log.Printf("[Archive] Failed to delete archived battles: %v", err)
		return
	}
	log.Printf("✅ Archived %d battle(s) to %s", len(battles), url)
}
