package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *storage.DB
}

func NewRestaurantRepository(db *storage.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.DB.WithContext(ctx).Create(restaurant).Error
}

// Retrieves the tenant owned by a user, nil when the user has none yet.
func (r *RestaurantRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&restaurant).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &restaurant, err
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &restaurant, err
}

func (r *RestaurantRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *RestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Restaurant{}).Error
}
