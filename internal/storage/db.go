package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/menucraft/menucraft/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	DB *gorm.DB
}

// dsn - Data Source Name
func NewPostgres(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// Used for local development and tests (":memory:" DSN included).
func NewSQLite(dsn string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// A single connection keeps in-memory databases coherent
	sqlDB.SetMaxOpenConns(1)

	return &DB{DB: db}, nil
}

func New(driver, dsn string) (*DB, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres", "":
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (d *DB) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Restaurant{},
		&models.Menu{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.QRCode{},
		&models.Location{},
		&models.ScanEvent{},
		&models.ScanDailyStat{},
	)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (d *DB) Transaction(fn func(*gorm.DB) error) error {
	return d.DB.Transaction(fn)
}
