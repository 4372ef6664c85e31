// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Provider
// model. API keys are stored exactly as handed in; encryption and masking
// are service-layer concerns.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// CreateProvider inserts a new Provider row owned by userID.
func CreateProvider(ctx context.Context, db *gorm.DB, userID, name, baseURL, apiKey string) (*domain.Provider, error) {
	p := &domain.Provider{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		BaseURL:   baseURL,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProviders returns all providers belonging to userID, most recent first.
func ListProviders(ctx context.Context, db *gorm.DB, userID string) ([]domain.Provider, error) {
	var out []domain.Provider
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetProvider fetches a provider by ID and owner. Returns ErrNotFound when
// the record does not exist or belongs to someone else.
func GetProvider(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Provider, error) {
	var p domain.Provider
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProviderByID fetches a provider by ID regardless of owner. Used by the
// orchestrator when resolving a chat's model to its endpoint.
func GetProviderByID(ctx context.Context, db *gorm.DB, id string) (*domain.Provider, error) {
	var p domain.Provider
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProvider updates the mutable fields of a provider. Empty apiKey
// means "keep the stored credential". Returns ErrNotFound when no row
// matches id/userID.
func UpdateProvider(ctx context.Context, db *gorm.DB, id, userID, name, baseURL, apiKey string) error {
	updates := map[string]any{
		"name":     name,
		"base_url": baseURL,
	}
	if apiKey != "" {
		updates["api_key"] = apiKey
	}
	res := db.WithContext(ctx).
		Model(&domain.Provider{}).
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

// DeleteProvider soft-deletes a provider owned by userID. Returns
// ErrNotFound when no row matches.
func DeleteProvider(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Provider{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
