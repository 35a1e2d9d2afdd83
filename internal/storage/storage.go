// Package storage provides the opt-in chart log using GORM and SQLite.
// The log records successful invocations; it is never read while a
// chart is being computed.
package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors following Dave Cheney's principle: define errors as values
var (
	ErrNilRecord = errors.New("chart record cannot be nil")
	ErrNotFound  = errors.New("chart record not found")
)

// ChartRecord is one logged chart invocation.
type ChartRecord struct {
	ID uint `gorm:"primaryKey"`

	Person      string  `gorm:"not null;index"`
	UTC         string  `gorm:"not null"`
	Latitude    float64 `gorm:"not null"`
	Longitude   float64 `gorm:"not null"`
	HouseSystem string  `gorm:"not null"`

	SunPlacement  string
	MoonPlacement string
	AspectCount   int
	EngineVersion string

	CreatedAt time.Time
}

// Store defines the interface for chart log operations
type Store interface {
	Close() error
	RecordChart(*ChartRecord) error
	ListCharts(person string, limit int) ([]*ChartRecord, error)
	GetChart(id uint) (*ChartRecord, error)
}

// DB wraps gorm.DB with chart log operations
type DB struct {
	db *gorm.DB
}

// Config holds database configuration
type Config struct {
	DatabasePath string
	LogLevel     string // silent, error, warn, info
}

// InitDB initializes the database connection and runs migrations
func InitDB(cfg Config) (*DB, error) {
	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&ChartRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// RecordChart appends one invocation to the chart log
func (d *DB) RecordChart(record *ChartRecord) error {
	if record == nil {
		return ErrNilRecord
	}
	if err := d.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to record chart: %w", err)
	}
	return nil
}

// ListCharts returns logged charts newest-first. An empty person lists
// everyone; limit <= 0 lists everything.
func (d *DB) ListCharts(person string, limit int) ([]*ChartRecord, error) {
	query := d.db.Order("created_at DESC, id DESC")
	if person != "" {
		query = query.Where("person = ?", person)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*ChartRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	return records, nil
}

// GetChart retrieves a single logged chart by id
func (d *DB) GetChart(id uint) (*ChartRecord, error) {
	var record ChartRecord
	err := d.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chart %d: %w", id, err)
	}
	return &record, nil
}
