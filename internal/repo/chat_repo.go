// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// All functions accept a *gorm.DB handle, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When a chat is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateChat inserts a new Chat row owned by userID. The chat ID is a
// randomly generated UUID and CreatedAt is set to UTC.
func CreateChat(ctx context.Context, db *gorm.DB, userID, modelID, title string, promptID *string, isDocument bool) (*domain.Chat, error) {
	c := &domain.Chat{
		ID:         uuid.NewString(),
		UserID:     userID,
		ModelID:    modelID,
		PromptID:   promptID,
		Title:      title,
		IsDocument: isDocument,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListChats returns all chats belonging to userID, ordered by creation time
// descending (most recent first). It returns an empty slice if the user has
// no chats.
func ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountChats returns the total number of chats owned by userID.
func CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListChatsPage returns a paginated slice of chats for userID, ordered by
// creation time descending. Use CountChats to obtain the total for
// pagination metadata.
func ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetChat fetches a single chat by its ID and owner (userID). If the record
// does not exist, it returns ErrNotFound.
func GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateChatTitle updates the title of a chat identified by id and owned by
// userID. If no rows are affected (chat missing or not owned by userID),
// it returns ErrNotFound.
func UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateChatContent replaces the freeform content blob (and, when metadata
// is non-nil, the metadata string) of a document chat. Ownership is
// enforced the same way as UpdateChatTitle.
func UpdateChatContent(ctx context.Context, db *gorm.DB, id, userID, content string, metadata *string) error {
	updates := map[string]any{"content": content}
	if metadata != nil {
		updates["metadata"] = *metadata
	}
	res := db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
