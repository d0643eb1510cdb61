package models

import (
	"time"

	"github.com/google/uuid"
)

// One QR code scan, written asynchronously by the scan recorder.
type ScanEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QRCodeID  uuid.UUID `gorm:"type:uuid;index;not null" json:"qr_code_id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	// Absent for direct camera scans; stored as NULL, not ""
	Referer *string `json:"referer,omitempty"`
}

func (ScanEvent) TableName() string {
	return "scan_events"
}

// Per-day scan counts, produced by the nightly rollup job.
type ScanDailyStat struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	QRCodeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_scan_daily,priority:1;not null" json:"qr_code_id"`
	Day      time.Time `gorm:"uniqueIndex:idx_scan_daily,priority:2;not null" json:"day"`
	Count    int64     `gorm:"not null" json:"count"`
}

func (ScanDailyStat) TableName() string {
	return "scan_daily_stats"
}
