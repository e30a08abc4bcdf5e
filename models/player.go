package models

import "time"

// PlayerProfile is a local snapshot of user data needed by the engine.
// Nick and Username are mirrored from the profile service by the sync
// worker; TotalXP is owned here and only mutated by the XP ledger.
type PlayerProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Nick           string `gorm:"index" json:"nick"`
	Username       string `gorm:"index" json:"username"`

	TotalXP int64 `gorm:"not null;default:0" json:"total_xp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
