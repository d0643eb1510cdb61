package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *storage.DB
}

func NewSubscriptionRepository(db *storage.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.DB.WithContext(ctx).Create(sub).Error
}

// Retrieves the user's active subscription, nil when none exists.
// Never creates a record as a side effect.
func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Order("created_at DESC").
		First(&sub).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &sub, err
}

// Switches the user's active subscription to the given tier, creating the
// record if the user has none yet.
func (r *SubscriptionRepository) SetTier(ctx context.Context, userID uuid.UUID, tierName string) (*models.Subscription, error) {
	sub, err := r.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sub == nil {
		sub = &models.Subscription{
			UserID: userID,
			Tier:   tierName,
			Status: models.SubscriptionActive,
		}
		if err := r.Create(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}

	sub.Tier = tierName
	err = r.db.DB.WithContext(ctx).
		Model(sub).
		Update("tier", tierName).Error

	return sub, err
}

func (r *SubscriptionRepository) Cancel(ctx context.Context, userID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Update("status", models.SubscriptionCanceled).Error
}
