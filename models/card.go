package models

import (
	"time"

	"gorm.io/gorm"
)

// CardType distinguishes playable car cards from achievement cards
// granted by the badge engine.
type CardType string

const (
	CardTypeCar         CardType = "car"
	CardTypeAchievement CardType = "achievement"
)

// Card is an immutable catalog entity. The catalog is owned by the
// content service; this service only reads it.
type Card struct {
	ID          string   `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string   `gorm:"not null;index" json:"name"`
	Slug        string   `gorm:"uniqueIndex;not null" json:"slug"`
	CardType    CardType `gorm:"type:varchar(16);not null;index" json:"card_type"`
	Rarity      string   `gorm:"type:varchar(16);default:'common'" json:"rarity"`
	Horsepower  int      `json:"horsepower"`
	Torque      int      `json:"torque"`
	MaxSpeed    int      `json:"max_speed"`
	ImageURL    string   `gorm:"type:text" json:"image_url"`
	Description string   `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// OwnedCard links a user to a card copy. A user may own several
// copies of the same card; each copy is its own row.
type OwnedCard struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	CardID         string `gorm:"index;not null" json:"card_id"`
	AcquiredVia    string `gorm:"type:varchar(32);default:'pack'" json:"acquired_via"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
