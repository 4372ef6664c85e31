// Message HTTP handlers.
//
// This file exposes REST endpoints for chat messages:
//   - POST /chats/{id}/messages   (append a user message, attempt a reply)
//   - GET  /chats/{id}/messages   (list paginated messages for a chat)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to application services (MessageService)
//   - implement conditional responses (ETag)
//
// A completion failure is not an HTTP error: the user message was persisted,
// so the response is 200 with only that message in the array. Clients detect
// the failure by the absent assistant reply.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/repo"
	"github.com/g8d3/ai-chat-dev/internal/services"
	"github.com/g8d3/ai-chat-dev/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user message.
//
// Content is normalized by the handler (line endings and excessive blank
// lines) before being passed to the service layer. The service enforces a
// maximum rune count, configurable in MessageService.
type PostMessageRequest struct {
	// Content is the user prompt. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"How do tides work?"`
}

// PostMessageResponse carries the messages created by one turn: the user
// message always, and the assistant reply when the completion succeeded.
type PostMessageResponse struct {
	Messages []domain.Message `json:"messages"`
}

// ListMessagesResponse contains a page of chat messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampMsgPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampMsgPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
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

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxPromptRunes inspects the concrete MessageService for a configured
// prompt-length limit. If unavailable, it returns a conservative fallback.
func discoverMaxPromptRunes(msgSvc MessageService) int {
	const fallback = 8000
	if ms, ok := msgSvc.(*services.MessageService); ok {
		if ms.MaxPromptRunes > 0 {
			return ms.MaxPromptRunes
		}
	}
	return fallback
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message
// @Description Appends a user message to the chat and attempts an assistant reply.
// @Description On completion failure the user message is still stored and returned alone.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID that owns the chat"  example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"              format(uuid)
// @Param       body       body    handlers.PostMessageRequest  true  "User message payload"
//
// @Success     200  {object}  handlers.PostMessageResponse  "Messages created by this turn"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse        "Chat not found"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /chats/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("id")

	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	maxRunes := discoverMaxPromptRunes(h.msgSvc)
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	userMsg, asstMsg, err := h.msgSvc.Send(ctx, userID(c), chatID, content)
	if err != nil {
		switch err {
		case services.ErrChatNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		case services.ErrModelNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "model not found")
		case services.ErrProviderNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
		case services.ErrPromptNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "prompt not found")
		case services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		case services.ErrEmptyPrompt:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSendFailed, err.Error())
		}
		return
	}

	msgs := []domain.Message{*userMsg}
	if asstMsg != nil {
		msgs = append(msgs, *asstMsg)
	}
	ok(c, http.StatusOK, PostMessageResponse{Messages: msgs})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a chat
// @Description Returns a paginated list of messages for the given chat, oldest first.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path   string  true  "Chat ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(200) default(50)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("id")

	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.msgSvc.(*services.MessageService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.MessagesStats(ctx, db, chatID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, chatID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampMsgPagination(c)

	items, total, err := h.msgSvc.ListPage(ctx, userID(c), chatID, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrChatNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}
