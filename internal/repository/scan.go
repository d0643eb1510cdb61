package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm/clause"
)

type ScanRepository struct {
	db *storage.DB
}

func NewScanRepository(db *storage.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Inserts a single scan event
func (r *ScanRepository) Create(ctx context.Context, event *models.ScanEvent) error {
	return r.db.DB.WithContext(ctx).Create(event).Error
}

// Inserts multiple scan events (used by the batching recorder)
func (r *ScanRepository) CreateBatch(ctx context.Context, events []models.ScanEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&events).Error
}

// Counts scans across all QR codes of a tenant within a time range
func (r *ScanRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ScanEvent{}).
		Joins("JOIN qr_codes ON qr_codes.id = scan_events.qr_code_id").
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ? AND scan_events.timestamp BETWEEN ? AND ?", restaurantID, from, to).
		Count(&count).Error

	return count, err
}

func (r *ScanRepository) CountByQRCode(ctx context.Context, qrCodeID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ScanEvent{}).
		Where("qr_code_id = ? AND timestamp BETWEEN ? AND ?", qrCodeID, from, to).
		Count(&count).Error

	return count, err
}

// Retrieves recent scans for a tenant, newest first
func (r *ScanRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, from, to time.Time, limit, offset int) ([]models.ScanEvent, error) {
	var events []models.ScanEvent
	err := r.db.DB.WithContext(ctx).
		Joins("JOIN qr_codes ON qr_codes.id = scan_events.qr_code_id").
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ? AND scan_events.timestamp BETWEEN ? AND ?", restaurantID, from, to).
		Order("scan_events.timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error

	return events, err
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Returns scans per day for a tenant within a time range
func (r *ScanRepository) DailySeries(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]DailyCount, error) {
	var series []DailyCount
	err := r.db.DB.WithContext(ctx).
		Model(&models.ScanEvent{}).
		Select("DATE(scan_events.timestamp) AS day, COUNT(*) AS count").
		Joins("JOIN qr_codes ON qr_codes.id = scan_events.qr_code_id").
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ? AND scan_events.timestamp BETWEEN ? AND ?", restaurantID, from, to).
		Group("DATE(scan_events.timestamp)").
		Order("day ASC").
		Scan(&series).Error

	return series, err
}

type QRCodeCount struct {
	QRCodeID uuid.UUID `json:"qr_code_id"`
	Label    string    `json:"label"`
	Count    int64     `json:"count"`
}

// Returns the most scanned QR codes of a tenant
func (r *ScanRepository) TopQRCodes(ctx context.Context, restaurantID uuid.UUID, from, to time.Time, limit int) ([]QRCodeCount, error) {
	var top []QRCodeCount
	err := r.db.DB.WithContext(ctx).
		Model(&models.ScanEvent{}).
		Select("scan_events.qr_code_id AS qr_code_id, qr_codes.label AS label, COUNT(*) AS count").
		Joins("JOIN qr_codes ON qr_codes.id = scan_events.qr_code_id").
		Joins("JOIN menus ON menus.id = qr_codes.menu_id").
		Where("menus.restaurant_id = ? AND scan_events.timestamp BETWEEN ? AND ?", restaurantID, from, to).
		Group("scan_events.qr_code_id, qr_codes.label").
		Order("count DESC").
		Limit(limit).
		Scan(&top).Error

	return top, err
}

// Aggregates one day of scan events into scan_daily_stats. Re-running for
// the same day overwrites the existing counts.
func (r *ScanRepository) RollupDay(ctx context.Context, day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var counts []struct {
		QRCodeID uuid.UUID
		Count    int64
	}
	err := r.db.DB.WithContext(ctx).
		Model(&models.ScanEvent{}).
		Select("qr_code_id, COUNT(*) AS count").
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Group("qr_code_id").
		Scan(&counts).Error
	if err != nil {
		return err
	}

	for _, c := range counts {
		stat := models.ScanDailyStat{
			QRCodeID: c.QRCodeID,
			Day:      start,
			Count:    c.Count,
		}

		err := r.db.DB.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "qr_code_id"}, {Name: "day"}},
				DoUpdates: clause.AssignmentColumns([]string{"count"}),
			}).
			Create(&stat).Error
		if err != nil {
			return err
		}
	}

	return nil
}
