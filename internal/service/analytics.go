package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/repository"
)

type AnalyticsService struct {
	scans   *repository.ScanRepository
	qrCodes *repository.QRCodeRepository
}

func NewAnalyticsService(scans *repository.ScanRepository, qrCodes *repository.QRCodeRepository) *AnalyticsService {
	return &AnalyticsService{
		scans:   scans,
		qrCodes: qrCodes,
	}
}

// Holds scan analytics summary data
type ScanSummary struct {
	TotalScans  int64                    `json:"total_scans"`
	QRCodeCount int                      `json:"qr_code_count"`
	TopQRCodes  []repository.QRCodeCount `json:"top_qr_codes"`
}

// Retrieves a scan summary for a tenant and time range
func (s *AnalyticsService) GetSummary(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (*ScanSummary, error) {
	summary := &ScanSummary{}

	total, err := s.scans.CountByRestaurant(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	summary.TotalScans = total

	codes, err := s.qrCodes.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	summary.QRCodeCount = len(codes)

	if total == 0 {
		summary.TopQRCodes = []repository.QRCodeCount{}
		return summary, nil
	}

	top, err := s.scans.TopQRCodes(ctx, restaurantID, from, to, 10)
	if err != nil {
		return nil, err
	}
	summary.TopQRCodes = top

	return summary, nil
}

// Retrieves scans-per-day for a tenant and time range
func (s *AnalyticsService) GetTimeSeries(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]repository.DailyCount, error) {
	return s.scans.DailySeries(ctx, restaurantID, from, to)
}

// Retrieves the scan count for a single QR code
func (s *AnalyticsService) GetQRCodeStats(ctx context.Context, qrCodeID uuid.UUID, from, to time.Time) (int64, error) {
	return s.scans.CountByQRCode(ctx, qrCodeID, from, to)
}
