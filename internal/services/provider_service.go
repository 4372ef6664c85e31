// Package services – ProviderService
//
// This file implements ProviderService, which manages user-configured
// OpenAI-compatible endpoints. It validates inputs, encrypts API keys at
// rest when an encryptor is configured, and redacts credentials on every
// read so plaintext keys never leave the service boundary.
package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/repo"
	"github.com/g8d3/ai-chat-dev/internal/security"
)

// ProviderService provides CRUD over providers with credential hygiene.
type ProviderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Keys encrypts API keys at rest. Nil disables encryption (keys are
	// stored verbatim); masking on read still applies.
	Keys *security.Encryptor
}

// plainAPIKey recovers the usable credential from its stored form. Rows
// written before encryption was enabled decrypt unsuccessfully and are
// returned as stored.
func plainAPIKey(enc *security.Encryptor, stored string) string {
	if enc == nil || stored == "" {
		return stored
	}
	plain, err := enc.Decrypt(stored)
	if err != nil {
		return stored
	}
	return plain
}

// sealAPIKey converts a plaintext credential into its at-rest form.
func sealAPIKey(enc *security.Encryptor, plain string) (string, error) {
	if enc == nil || plain == "" {
		return plain, nil
	}
	return enc.Encrypt(plain)
}

// redactProvider masks the credential in-place for an outbound
// representation. Applied to every provider that crosses the trust
// boundary toward a client view.
func redactProvider(enc *security.Encryptor, p *domain.Provider) {
	p.APIKey = security.MaskSecret(plainAPIKey(enc, p.APIKey))
}

// Create validates and persists a new provider owned by userID. The
// returned copy carries the masked credential.
func (s *ProviderService) Create(ctx context.Context, userID, name, baseURL, apiKey string) (*domain.Provider, error) {
	tr := otel.Tracer("services/ProviderService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	baseURL, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	stored, err := sealAPIKey(s.Keys, strings.TrimSpace(apiKey))
	if err != nil {
		return nil, err
	}
	p, err := repo.CreateProvider(ctx, s.DB, userID, name, baseURL, stored)
	if err != nil {
		return nil, err
	}
	redactProvider(s.Keys, p)
	return p, nil
}

// List returns the user's providers with masked credentials.
func (s *ProviderService) List(ctx context.Context, userID string) ([]domain.Provider, error) {
	tr := otel.Tracer("services/ProviderService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	out, err := repo.ListProviders(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		redactProvider(s.Keys, &out[i])
	}
	return out, nil
}

// Get returns one provider with a masked credential, or ErrProviderNotFound.
func (s *ProviderService) Get(ctx context.Context, userID, id string) (*domain.Provider, error) {
	tr := otel.Tracer("services/ProviderService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("provider.id", id)),
	)
	defer span.End()

	p, err := repo.GetProvider(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	redactProvider(s.Keys, p)
	return p, nil
}

// Update modifies name/baseURL and, when apiKey is non-empty, replaces the
// stored credential. An empty apiKey keeps the existing one so clients can
// round-trip masked values safely.
func (s *ProviderService) Update(ctx context.Context, userID, id, name, baseURL, apiKey string) error {
	tr := otel.Tracer("services/ProviderService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("provider.id", id)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	baseURL, err := normalizeBaseURL(baseURL)
	if err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	// A fully-masked value is the client echoing our own redaction back;
	// treat it as "unchanged".
	if strings.Contains(apiKey, "*") && apiKey == security.MaskSecret(apiKey) {
		apiKey = ""
	}
	stored, err := sealAPIKey(s.Keys, apiKey)
	if err != nil {
		return err
	}

	err = repo.UpdateProvider(ctx, s.DB, id, userID, name, baseURL, stored)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProviderNotFound
	}
	return err
}

// Delete removes a provider owned by userID.
func (s *ProviderService) Delete(ctx context.Context, userID, id string) error {
	tr := otel.Tracer("services/ProviderService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("provider.id", id)),
	)
	defer span.End()

	err := repo.DeleteProvider(ctx, s.DB, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProviderNotFound
	}
	return err
}

// normalizeBaseURL trims and validates a provider endpoint root.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidBaseURL
	}
	return strings.TrimRight(raw, "/"), nil
}
