// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (ETag generation) in the HTTP layer.
// The broadcast hub only hints that a chat changed; these stats let clients
// re-fetch cheaply when nothing actually did.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// MessagesStats returns aggregate metadata for messages within a given chat:
// the total number of rows and the maximum UpdatedAt timestamp among those
// rows. When the chat has no messages, the returned count is 0 and
// maxUpdatedAt is nil.
func MessagesStats(ctx context.Context, db *gorm.DB, chatID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ChatsStats returns aggregate metadata for a user's chats: total rows and
// the maximum UpdatedAt timestamp. Used for conditional chat listings.
func ChatsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
