package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm"
)

type LocationRepository struct {
	db *storage.DB
}

func NewLocationRepository(db *storage.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.DB.WithContext(ctx).Create(location).Error
}

func (r *LocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&location).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &location, err
}

func (r *LocationRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC").
		Find(&locations).Error

	return locations, err
}

func (r *LocationRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Location{}).Error
}

// Counts locations under a tenant (quota category "locations").
func (r *LocationRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Location{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&count).Error

	return count, err
}
