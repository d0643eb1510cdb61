package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string    `gorm:"not null" json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Location) TableName() string {
	return "locations"
}
