// Package services – MessageService
//
// This file implements the chat orchestrator. Send runs one full
// user-turn: validate the prompt, resolve the chat's model, provider,
// and optional system prompt, persist the user's message, call the
// completion endpoint, and record the outcome.
//
// The orchestration is deliberately asymmetric around the completion
// call. The user's message is persisted before the upstream request so
// the conversation reaches a stable state whatever happens next. On
// success an assistant message is stored, a success log row is written,
// and a message event is broadcast; on failure only an error log row is
// written and the caller gets the user message back without an error.
// Completion failures are an expected runtime condition, not a request
// error, so they never surface as one.
package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/hub"
	"github.com/g8d3/ai-chat-dev/internal/llm"
	"github.com/g8d3/ai-chat-dev/internal/repo"
	"github.com/g8d3/ai-chat-dev/internal/security"
)

// failedResponsePlaceholder is stored in the log's Response column when
// the completion call did not yield a usable answer.
const failedResponsePlaceholder = "(no response)"

// Broadcaster is the push surface the orchestrator publishes events to.
// *hub.Hub satisfies it; tests substitute a recorder.
type Broadcaster interface {
	Publish(event any, exclude *hub.Connection)
}

// MessageService orchestrates a single chat turn end to end.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Completions calls the provider's chat-completions endpoint.
	Completions llm.Client
	// Hub receives a message event after each successful completion. Nil
	// disables broadcasting.
	Hub Broadcaster
	// Keys decrypts stored provider credentials. Nil means credentials
	// are stored in plaintext.
	Keys *security.Encryptor

	// MaxPromptRunes rejects oversized prompts before any persistence.
	// Zero disables the limit.
	MaxPromptRunes int
	// TitleMaxLen caps auto-generated titles by rune length.
	TitleMaxLen int
}

// NewMessageService constructs a MessageService with default limits.
func NewMessageService(db *gorm.DB, c llm.Client, b Broadcaster, keys *security.Encryptor) *MessageService {
	return &MessageService{
		DB:             db,
		Completions:    c,
		Hub:            b,
		Keys:           keys,
		MaxPromptRunes: 8000,
		TitleMaxLen:    60,
	}
}

// Send runs one chat turn for userID against chatID.
//
// Returns (userMsg, assistantMsg, nil) when the completion succeeded and
// (userMsg, nil, nil) when it failed after the user message was stored.
// A non-nil error is only returned for request-level problems: empty or
// oversized prompts, unknown chat, or broken model/provider references.
func (s *MessageService) Send(ctx context.Context, userID, chatID, prompt string) (*domain.Message, *domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if prompt == "" {
		return nil, nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, nil, ErrTooLong
	}

	chat, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChatNotFound
		}
		return nil, nil, err
	}

	model, err := repo.GetModel(ctx, s.DB, chat.ModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrModelNotFound
		}
		return nil, nil, err
	}
	provider, err := repo.GetProviderByID(ctx, s.DB, model.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProviderNotFound
		}
		return nil, nil, err
	}

	var systemPrompt string
	if chat.PromptID != nil && *chat.PromptID != "" {
		p, err := repo.GetPromptByID(ctx, s.DB, *chat.PromptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrPromptNotFound
			}
			return nil, nil, err
		}
		systemPrompt = p.Content
	}

	// The user's message is durable before the upstream call so a
	// completion failure leaves the conversation in a stable state.
	userMsg, err := repo.CreateMessage(s.DB.WithContext(ctx), chatID, domain.RoleUser, prompt)
	if err != nil {
		return nil, nil, err
	}

	if isPlaceholderTitle(chat.Title) {
		s.autoTitle(ctx, chat, prompt)
	}

	answer, completeErr := s.Completions.Complete(ctx, llm.Request{
		BaseURL:      provider.BaseURL,
		APIKey:       plainAPIKey(s.Keys, provider.APIKey),
		Model:        model.Name,
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
	})

	entry := domain.InteractionLog{
		Username:         userID,
		ModelName:        model.Name,
		ProviderEndpoint: provider.BaseURL,
		ChatTitle:        chat.Title,
		Request:          prompt,
	}

	if completeErr != nil {
		entry.Status = domain.LogStatusError
		entry.Response = failedResponsePlaceholder
		entry.ErrorDetail = completeErr.Error()
		s.writeLog(ctx, entry, chatID)
		log.Warn().
			Err(completeErr).
			Str("chat_id", chatID).
			Str("model", model.Name).
			Msg("completion failed")
		return userMsg, nil, nil
	}

	assistantMsg, err := repo.CreateMessage(s.DB.WithContext(ctx), chatID, domain.RoleAssistant, answer)
	if err != nil {
		return nil, nil, err
	}

	entry.Status = domain.LogStatusSuccess
	entry.Response = answer
	s.writeLog(ctx, entry, chatID)

	if s.Hub != nil {
		s.Hub.Publish(hub.NewMessageEvent(chatID, assistantMsg), nil)
	}
	return userMsg, assistantMsg, nil
}

// ListPage returns a page of messages for a chat the user owns, oldest
// first, together with the total count.
func (s *MessageService) ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(attribute.String("chat.id", chatID)),
	)
	defer span.End()

	if _, err := repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrChatNotFound
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	db := s.DB.WithContext(ctx)
	total, err := repo.CountMessages(db, chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}
	items, err := repo.ListMessagesPage(db, chatID, offset, pageSize)
	return items, total, err
}

// writeLog appends one audit row. Log-write failures are swallowed after
// a warning; the turn's outcome never depends on the audit trail.
func (s *MessageService) writeLog(ctx context.Context, entry domain.InteractionLog, chatID string) {
	if _, err := repo.CreateLog(ctx, s.DB, entry); err != nil {
		log.Warn().
			Err(err).
			Str("chat_id", chatID).
			Msg("interaction log write failed")
	}
}

// autoTitle replaces a placeholder chat title with the title-cased lead
// of the first prompt. Failures are logged and ignored.
func (s *MessageService) autoTitle(ctx context.Context, chat *domain.Chat, prompt string) {
	title := normalizeTitle(prompt)
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		title = string([]rune(title)[:max])
	}
	if title == "" {
		return
	}
	// cases.Caser is stateful, so a fresh one per call.
	title = cases.Title(language.English).String(title)
	if err := repo.UpdateChatTitle(ctx, s.DB, chat.ID, chat.UserID, title); err != nil {
		log.Warn().
			Err(err).
			Str("chat_id", chat.ID).
			Msg("auto title update failed")
		return
	}
	chat.Title = title
}

// isPlaceholderTitle reports whether a chat still carries a default
// title and should be renamed from its first prompt.
func isPlaceholderTitle(title string) bool {
	switch title {
	case "", "New chat", "Untitled":
		return true
	}
	return false
}
