// Package services – PromptService
//
// Manages reusable system prompts. Prompts are plain named text blobs;
// the only rules enforced here are ownership and non-blank names.
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

// PromptService provides CRUD over system prompts.
type PromptService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create persists a new prompt owned by userID.
func (s *PromptService) Create(ctx context.Context, userID, name, content string) (*domain.Prompt, error) {
	tr := otel.Tracer("services/PromptService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreatePrompt(ctx, s.DB, userID, name, content)
}

// List returns the user's prompts.
func (s *PromptService) List(ctx context.Context, userID string) ([]domain.Prompt, error) {
	tr := otel.Tracer("services/PromptService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.ListPrompts(ctx, s.DB, userID)
}

// Get returns one prompt or ErrPromptNotFound.
func (s *PromptService) Get(ctx context.Context, userID, id string) (*domain.Prompt, error) {
	tr := otel.Tracer("services/PromptService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("prompt.id", id)),
	)
	defer span.End()

	p, err := repo.GetPrompt(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update replaces name and content of a prompt owned by userID.
func (s *PromptService) Update(ctx context.Context, userID, id, name, content string) error {
	tr := otel.Tracer("services/PromptService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("prompt.id", id)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	err := repo.UpdatePrompt(ctx, s.DB, id, userID, name, content)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPromptNotFound
	}
	return err
}

// Delete removes a prompt owned by userID.
func (s *PromptService) Delete(ctx context.Context, userID, id string) error {
	tr := otel.Tracer("services/PromptService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("prompt.id", id)),
	)
	defer span.End()

	err := repo.DeletePrompt(ctx, s.DB, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPromptNotFound
	}
	return err
}
