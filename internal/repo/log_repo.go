// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// InteractionLog audit trail. The trail is append-only: rows are created,
// listed, and counted, never updated or deleted.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// CreateLog appends one interaction log row. The entry's ID and CreatedAt
// are assigned here; everything else is recorded as given.
func CreateLog(ctx context.Context, db *gorm.DB, entry domain.InteractionLog) (*domain.InteractionLog, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountLogs returns the total number of log rows for username.
func CountLogs(ctx context.Context, db *gorm.DB, username string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.InteractionLog{}).
		Where("username = ?", username).
		Count(&total).Error
	return total, err
}

// ListLogsPage returns a paginated slice of log rows for username, newest
// first.
func ListLogsPage(ctx context.Context, db *gorm.DB, username string, offset, limit int) ([]domain.InteractionLog, error) {
	var out []domain.InteractionLog
	err := db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
