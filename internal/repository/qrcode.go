package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm"
)

type QRCodeRepository struct {
	db *storage.DB
}

func NewQRCodeRepository(db *storage.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

func (r *QRCodeRepository) Create(ctx context.Context, qr *models.QRCode) error {
	return r.db.DB.WithContext(ctx).Create(qr).Error
}

func (r *QRCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&qr).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &qr, err
}

// Retrieves a QR code by its public short code.
func (r *QRCodeRepository) FindByCode(ctx context.Context, code string) (*models.QRCode, error) {
	var qr models.QRCode
	err := r.db.DB.WithContext(ctx).
		Where("code = ?", code).
		First(&qr).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &qr, err
}

func (r *QRCodeRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]models.QRCode, error) {
	var codes []models.QRCode
	err := r.db.DB.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("created_at DESC").
		Find(&codes).Error

	return codes, err
}

func (r *QRCodeRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.QRCode, error) {
	var codes []models.QRCode
	err := r.db.DB.WithContext(ctx).
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ?", restaurantID).
		Order("qr_codes.created_at DESC").
		Find(&codes).Error

	return codes, err
}

func (r *QRCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.QRCode{}).Error
}

// Counts QR codes whose parent menu belongs to the tenant
// (quota category "qrCodes").
func (r *QRCodeRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.QRCode{}).
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ?", restaurantID).
		Count(&count).Error

	return count, err
}
