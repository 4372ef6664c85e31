// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Model
// entity (model identifiers registered under a provider).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// CreateModel inserts a new Model row under providerID.
func CreateModel(ctx context.Context, db *gorm.DB, providerID, name string) (*domain.Model, error) {
	m := &domain.Model{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		Name:       name,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListModels returns all models registered under providerID, oldest first
// so the listing is stable for clients.
func ListModels(ctx context.Context, db *gorm.DB, providerID string) ([]domain.Model, error) {
	var out []domain.Model
	err := db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// GetModel fetches a model by ID. Returns ErrNotFound when missing.
func GetModel(ctx context.Context, db *gorm.DB, id string) (*domain.Model, error) {
	var m domain.Model
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteModel soft-deletes a model under providerID. Returns ErrNotFound
// when no row matches.
func DeleteModel(ctx context.Context, db *gorm.DB, id, providerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", id, providerID).
		Delete(&domain.Model{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
