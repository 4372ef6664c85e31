// Package services – ModelService
//
// Manages model identifiers registered under a provider. The service
// enforces that the parent provider exists and belongs to the requesting
// user before any mutation.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/repo"
)

// ModelService provides CRUD over models scoped to a provider.
type ModelService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create registers a model name under the user's provider.
func (s *ModelService) Create(ctx context.Context, userID, providerID, name string) (*domain.Model, error) {
	tr := otel.Tracer("services/ModelService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("provider.id", providerID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := repo.GetProvider(ctx, s.DB, providerID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return repo.CreateModel(ctx, s.DB, providerID, name)
}

// List returns all models registered under the user's provider.
func (s *ModelService) List(ctx context.Context, userID, providerID string) ([]domain.Model, error) {
	tr := otel.Tracer("services/ModelService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("provider.id", providerID)),
	)
	defer span.End()

	if _, err := repo.GetProvider(ctx, s.DB, providerID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return repo.ListModels(ctx, s.DB, providerID)
}

// Delete removes a model under the user's provider.
func (s *ModelService) Delete(ctx context.Context, userID, providerID, modelID string) error {
	tr := otel.Tracer("services/ModelService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("model.id", modelID)),
	)
	defer span.End()

	if _, err := repo.GetProvider(ctx, s.DB, providerID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProviderNotFound
		}
		return err
	}
	err := repo.DeleteModel(ctx, s.DB, modelID, providerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrModelNotFound
	}
	return err
}
