package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The tenant. Every tier-limited resource hangs off a restaurant,
// and each user owns at most one.
type Restaurant struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Restaurant) TableName() string {
	return "restaurants"
}
