package db

import (
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pysugar/task-nexus/internal/db/models"
)

// InitDB initializes the SQLite database connection and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate all models
	if err := database.AutoMigrate(&models.Connection{}, &models.RequestLog{}); err != nil {
		return nil, err
	}

	return database, nil
}

// SaveRequestLog persists one task API request outcome. Logging failures are
// reported but never fail the request itself.
func SaveRequestLog(database *gorm.DB, entry *models.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if err := database.Create(entry).Error; err != nil {
		log.Printf("⚠️ Failed to save request log: %v", err)
	}
}

// RecentRequestLogs returns the newest request logs, most recent first.
func RecentRequestLogs(database *gorm.DB, limit int) ([]models.RequestLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.RequestLog
	err := database.Order("timestamp DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// RequestStatsSummary aggregates success/error counts across all logs.
func RequestStatsSummary(database *gorm.DB) (models.RequestStats, error) {
	var stats models.RequestStats
	if err := database.Model(&models.RequestLog{}).Count(&stats.TotalRequests).Error; err != nil {
		return stats, err
	}
	if err := database.Model(&models.RequestLog{}).Where("status < ?", 400).Count(&stats.SuccessCount).Error; err != nil {
		return stats, err
	}
	stats.ErrorCount = stats.TotalRequests - stats.SuccessCount
	return stats, nil
}
