// Chat HTTP handlers.
//
// This file exposes REST endpoints for chat resources:
//   - POST   /chats               (create)
//   - GET    /chats               (list, paginated, ETag support)
//   - GET    /chats/{id}          (fetch one, includes document content)
//   - PUT    /chats/{id}/title    (rename)
//   - PUT    /chats/{id}/content  (save document content, broadcasts)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/repo"
	"github.com/g8d3/ai-chat-dev/internal/services"
	"github.com/g8d3/ai-chat-dev/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines chat lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Create starts a new chat for userID.
	Create(ctx context.Context, userID string, in services.CreateChatInput) (*domain.Chat, error)
	// ListPage returns a page of chats for a user and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Chat, int64, error)
	// Get fetches one chat that belongs to userID.
	Get(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	// UpdateTitle renames a chat that belongs to userID.
	UpdateTitle(ctx context.Context, userID, chatID, title string) error
	// UpdateContent saves a document chat's content and broadcasts it.
	UpdateContent(ctx context.Context, userID, chatID, content string, metadata *string) error
}

// MessageService defines message retrieval and generation operations.
type MessageService interface {
	// Send appends a user prompt and, on success, an assistant reply.
	Send(ctx context.Context, userID, chatID, prompt string) (*domain.Message, *domain.Message, error)
	// ListPage returns a page of messages within a chat and the total count.
	ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for providers, models, prompts, chats,
// messages, and logs. Chat and message services are abstract interfaces to
// keep transport concerns separate from business logic; the CRUD services
// are concrete.
type Handlers struct {
	chatSvc     ChatService
	msgSvc      MessageService
	providerSvc *services.ProviderService
	modelSvc    *services.ModelService
	promptSvc   *services.PromptService
	logSvc      *services.LogService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(chatSvc ChatService, msgSvc MessageService, providerSvc *services.ProviderService, modelSvc *services.ModelService, promptSvc *services.PromptService, logSvc *services.LogService) *Handlers {
	return &Handlers{
		chatSvc:     chatSvc,
		msgSvc:      msgSvc,
		providerSvc: providerSvc,
		modelSvc:    modelSvc,
		promptSvc:   promptSvc,
		logSvc:      logSvc,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateChatRequest is the JSON payload for creating a chat.
type CreateChatRequest struct {
	// ModelID selects the model the chat converses with.
	ModelID string `json:"model_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// PromptID optionally attaches a reusable system prompt.
	PromptID *string `json:"prompt_id,omitempty"`
	// Title optionally sets the chat title; a default is used when empty.
	Title string `json:"title" example:"Trip planning"`
	// IsDocument marks the chat as a collaborative document.
	IsDocument bool `json:"is_document"`
}

// UpdateChatTitleRequest is the JSON payload for updating a chat title.
type UpdateChatTitleRequest struct {
	// Title is the new chat name (1–255 chars).
	Title string `json:"title" binding:"required,min=1,max=255" example:"Itinerary draft"`
}

// UpdateChatContentRequest is the JSON payload for saving document content.
type UpdateChatContentRequest struct {
	// Content is the full document blob; the save replaces it wholesale.
	Content string `json:"content"`
	// Metadata is an opaque client-side JSON string, stored as given.
	Metadata *string `json:"metadata,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListChatsResponse wraps a page of chats and pagination information.
type ListChatsResponse struct {
	Chats      []domain.Chat `json:"chats"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginationFor computes the response metadata for one page.
func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// CreateChat godoc
// @ID          createChat
// @Summary     Create a new chat
// @Description Creates a chat for the current user and returns the chat resource.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateChatRequest  true  "Create chat payload"
//
// @Success     201  {object}  domain.Chat
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Model or prompt not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "model_id required")
		return
	}

	ch, err := h.chatSvc.Create(c.Request.Context(), userID(c), services.CreateChatInput{
		ModelID:    req.ModelID,
		PromptID:   req.PromptID,
		Title:      strings.TrimSpace(req.Title),
		IsDocument: req.IsDocument,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrModelNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "model not found")
		case errors.Is(err, services.ErrPromptNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "prompt not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, ch)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats (paginated)
// @Description Returns a page of the user's chats. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Chats
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListChatsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.chatSvc.(*services.ChatService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ChatsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.chatSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListChatsResponse{
		Chats:      items,
		Pagination: paginationFor(page, pageSize, total),
	})
}

// GetChat godoc
// @ID          getChat
// @Summary     Fetch a chat
// @Description Returns one chat owned by the current user, including document content.
// @Tags        Chats
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
//
// @Success     200  {object} domain.Chat
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id} [get]
func (h *Handlers) GetChat(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	ch, err := h.chatSvc.Get(c.Request.Context(), userID(c), chatID)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ch)
}

// UpdateChatTitle godoc
// @ID          updateChatTitle
// @Summary     Rename a chat
// @Description Updates the title of a chat owned by the current user.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
// @Param       body       body    handlers.UpdateChatTitleRequest  true  "New title"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id}/title [put]
func (h *Handlers) UpdateChatTitle(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req UpdateChatTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		return
	}

	if err := h.chatSvc.UpdateTitle(c.Request.Context(), userID(c), chatID, req.Title); err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}

// UpdateChatContent godoc
// @ID          updateChatContent
// @Summary     Save document content
// @Description Replaces a document chat's content and broadcasts a document_update to connected clients.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"         format(uuid)
// @Param       body       body    handlers.UpdateChatContentRequest  true  "Content payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Router      /chats/{id}/content [put]
func (h *Handlers) UpdateChatContent(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req UpdateChatContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.chatSvc.UpdateContent(c.Request.Context(), userID(c), chatID, req.Content, req.Metadata); err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		return
	}
	noContent(c)
}
