package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)

// A user's current plan. The billing flow creates and updates these rows;
// the quota enforcer only ever reads them.
type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Tier             string     `gorm:"not null;default:'FREE'" json:"tier"`
	Status           string     `gorm:"not null;default:'active'" json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Subscription) TableName() string {
	return "subscriptions"
}
