// Package services – ChatService
//
// This file implements the ChatService, which manages the lifecycle of
// chats and document chats. It validates model/prompt references,
// normalizes titles, enforces ownership rules, and coordinates repository
// operations for creating, listing (with pagination), and updating chats.
// Saving a document chat's content additionally broadcasts a
// document_update so other open views refresh.
//
// Service-level errors (e.g., ErrChatNotFound) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/hub"
	"github.com/g8d3/ai-chat-dev/internal/repo"
)

// ChatRepo defines the repository contract required by ChatService.
// Implementations are responsible for persistence of chat aggregates and
// the reference lookups chat creation depends on.
type ChatRepo interface {
	// CreateChat inserts a new chat row for the given user.
	CreateChat(ctx context.Context, db *gorm.DB, userID, modelID, title string, promptID *string, isDocument bool) (*domain.Chat, error)

	// ListChats returns all chats belonging to the user (non-paginated).
	ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error)

	// GetChat fetches a chat by ID ensuring it belongs to the user.
	GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error)

	// UpdateChatTitle updates a chat's title (only if it belongs to the user).
	UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error

	// UpdateChatContent replaces a chat's content blob and optional metadata.
	UpdateChatContent(ctx context.Context, db *gorm.DB, id, userID, content string, metadata *string) error

	// CountChats returns the total number of chats for pagination.
	CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListChatsPage returns a page of chats belonging to the user.
	ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error)

	// GetModel resolves a model reference during chat creation.
	GetModel(ctx context.Context, db *gorm.DB, id string) (*domain.Model, error)

	// GetPrompt resolves an optional system-prompt reference.
	GetPrompt(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Prompt, error)
}

// CreateChatInput carries the fields of a chat-creation request.
type CreateChatInput struct {
	ModelID    string
	PromptID   *string
	Title      string
	IsDocument bool
}

// ChatService provides chat-level operations such as creating, listing,
// and updating chat metadata and document content.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the chat repository used by this service.
	Repo ChatRepo
	// Hub receives document_update broadcasts on content saves. Nil
	// disables broadcasting (tests, one-off tools).
	Hub Broadcaster

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
}

// NewChatService constructs a ChatService with sane defaults.
func NewChatService(db *gorm.DB, r ChatRepo, b Broadcaster) *ChatService {
	return &ChatService{
		DB:          db,
		Repo:        r,
		Hub:         b,
		TitleMaxLen: 60,
	}
}

// Create inserts a new chat owned by userID. The model reference must
// exist; a prompt reference, when given, must exist and belong to the
// user. Titles are normalized, clipped, and defaulted.
func (s *ChatService) Create(ctx context.Context, userID string, in CreateChatInput) (*domain.Chat, error) {
	if _, err := s.Repo.GetModel(ctx, s.DB, in.ModelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	if in.PromptID != nil && *in.PromptID != "" {
		if _, err := s.Repo.GetPrompt(ctx, s.DB, *in.PromptID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPromptNotFound
			}
			return nil, err
		}
	} else {
		in.PromptID = nil
	}

	title := normalizeTitle(in.Title)
	if title == "" {
		title = "New chat"
	}
	return s.Repo.CreateChat(ctx, s.DB, userID, in.ModelID, s.clip(title), in.PromptID, in.IsDocument)
}

// List returns all chats for a user (non-paginated).
// Prefer ListPage for scalability on large datasets.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	return s.Repo.ListChats(ctx, s.DB, userID)
}

// ListPage returns a page of chats for a user (paginated).
// It applies defaults for invalid page/pageSize and returns total count.
func (s *ChatService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountChats(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Chat{}, 0, nil
	}

	items, err := s.Repo.ListChatsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get fetches one chat owned by userID.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	c, err := s.Repo.GetChat(ctx, s.DB, chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return c, nil
}

// UpdateTitle updates a chat's title, ensuring the chat exists and
// belongs to the given user. Falls back to "Untitled" if title is blank.
func (s *ChatService) UpdateTitle(ctx context.Context, userID, chatID, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = "Untitled"
	}
	if _, err := s.Repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return s.Repo.UpdateChatTitle(ctx, s.DB, chatID, userID, s.clip(title))
}

// UpdateContent saves a chat's freeform content blob (and optional
// metadata) and broadcasts a document_update so other connected views
// refresh. The broadcast is a hint, not state transfer: recipients
// re-fetch the chat if they display it.
func (s *ChatService) UpdateContent(ctx context.Context, userID, chatID, content string, metadata *string) error {
	if _, err := s.Repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	if err := s.Repo.UpdateChatContent(ctx, s.DB, chatID, userID, content, metadata); err != nil {
		return err
	}
	if s.Hub != nil {
		s.Hub.Publish(hub.NewDocumentEvent(chatID, content), nil)
	}
	return nil
}

// clip truncates a chat title to the configured maximum rune length.
func (s *ChatService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// chatRepoGorm is the production ChatRepo backed by the repo package's
// free functions.
type chatRepoGorm struct{}

// NewChatRepo returns the GORM-backed ChatRepo.
func NewChatRepo() ChatRepo { return chatRepoGorm{} }

func (chatRepoGorm) CreateChat(ctx context.Context, db *gorm.DB, userID, modelID, title string, promptID *string, isDocument bool) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, modelID, title, promptID, isDocument)
}

func (chatRepoGorm) ListChats(ctx context.Context, db *gorm.DB, userID string) ([]domain.Chat, error) {
	return repo.ListChats(ctx, db, userID)
}

func (chatRepoGorm) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (chatRepoGorm) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (chatRepoGorm) UpdateChatContent(ctx context.Context, db *gorm.DB, id, userID, content string, metadata *string) error {
	return repo.UpdateChatContent(ctx, db, id, userID, content, metadata)
}

func (chatRepoGorm) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountChats(ctx, db, userID)
}

func (chatRepoGorm) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, offset, limit)
}

func (chatRepoGorm) GetModel(ctx context.Context, db *gorm.DB, id string) (*domain.Model, error) {
	return repo.GetModel(ctx, db, id)
}

func (chatRepoGorm) GetPrompt(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Prompt, error) {
	return repo.GetPrompt(ctx, db, id, userID)
}
