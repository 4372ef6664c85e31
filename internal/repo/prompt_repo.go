// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Prompt
// model (reusable system prompts).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// CreatePrompt inserts a new Prompt row owned by userID.
func CreatePrompt(ctx context.Context, db *gorm.DB, userID, name, content string) (*domain.Prompt, error) {
	p := &domain.Prompt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPrompts returns all prompts belonging to userID, most recent first.
func ListPrompts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Prompt, error) {
	var out []domain.Prompt
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetPrompt fetches a prompt by ID and owner. Returns ErrNotFound when
// missing.
func GetPrompt(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Prompt, error) {
	var p domain.Prompt
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPromptByID fetches a prompt by ID regardless of owner. Used by the
// orchestrator when resolving a chat's system prompt.
func GetPromptByID(ctx context.Context, db *gorm.DB, id string) (*domain.Prompt, error) {
	var p domain.Prompt
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePrompt updates name and content of a prompt owned by userID.
// Returns ErrNotFound when no row matches.
func UpdatePrompt(ctx context.Context, db *gorm.DB, id, userID, name, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.Prompt{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"name": name, "content": content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePrompt soft-deletes a prompt owned by userID. Returns ErrNotFound
// when no row matches.
func DeletePrompt(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Prompt{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
