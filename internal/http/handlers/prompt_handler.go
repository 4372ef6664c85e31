// Prompt HTTP handlers.
//
// CRUD for reusable system prompts:
//   - POST   /prompts        GET /prompts
//   - GET    /prompts/{id}   PUT /prompts/{id}   DELETE /prompts/{id}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/g8d3/ai-chat-dev/internal/services"
)

// PromptRequest is the JSON payload for creating or updating a prompt.
type PromptRequest struct {
	// Name labels the prompt for selection in the UI.
	Name string `json:"name" binding:"required,min=1,max=255" example:"Concise assistant"`
	// Content is the system prompt text sent ahead of the conversation.
	Content string `json:"content" example:"You answer briefly and cite sources."`
}

// CreatePrompt godoc
// @ID          createPrompt
// @Summary     Create a system prompt
// @Tags        Prompts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.PromptRequest  true  "Prompt payload"
//
// @Success     201  {object}  domain.Prompt
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /prompts [post]
func (h *Handlers) CreatePrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	p, err := h.promptSvc.Create(c.Request.Context(), userID(c), req.Name, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyName) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListPrompts godoc
// @ID          listPrompts
// @Summary     List system prompts
// @Tags        Prompts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}   domain.Prompt
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /prompts [get]
func (h *Handlers) ListPrompts(c *gin.Context) {
	out, err := h.promptSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, out)
}

// GetPrompt godoc
// @ID          getPrompt
// @Summary     Fetch a system prompt
// @Tags        Prompts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Prompt ID (UUID)"       format(uuid)
//
// @Success     200  {object}  domain.Prompt
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Prompt not found"
// @Router      /prompts/{id} [get]
func (h *Handlers) GetPrompt(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt id must be a UUID")
		return
	}

	p, err := h.promptSvc.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrPromptNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "prompt not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePrompt godoc
// @ID          updatePrompt
// @Summary     Update a system prompt
// @Tags        Prompts
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Prompt ID (UUID)"       format(uuid)
// @Param       body       body    handlers.PromptRequest  true  "Prompt payload"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Prompt not found"
// @Router      /prompts/{id} [put]
func (h *Handlers) UpdatePrompt(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt id must be a UUID")
		return
	}

	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	if err := h.promptSvc.Update(c.Request.Context(), userID(c), id, req.Name, req.Content); err != nil {
		switch {
		case errors.Is(err, services.ErrPromptNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "prompt not found")
		case errors.Is(err, services.ErrEmptyName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	noContent(c)
}

// DeletePrompt godoc
// @ID          deletePrompt
// @Summary     Delete a system prompt
// @Tags        Prompts
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Prompt ID (UUID)"       format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Prompt not found"
// @Router      /prompts/{id} [delete]
func (h *Handlers) DeletePrompt(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt id must be a UUID")
		return
	}

	if err := h.promptSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, services.ErrPromptNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "prompt not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
