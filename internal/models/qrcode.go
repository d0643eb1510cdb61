package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QRCode struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MenuID    uuid.UUID `gorm:"type:uuid;index;not null" json:"menu_id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *QRCode) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (QRCode) TableName() string {
	return "qr_codes"
}
