// Model HTTP handlers.
//
// Models are nested under their provider:
//   - POST   /providers/{id}/models            (register a model name)
//   - GET    /providers/{id}/models            (list)
//   - DELETE /providers/{id}/models/{modelId}  (remove)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/g8d3/ai-chat-dev/internal/services"
)

// CreateModelRequest is the JSON payload for registering a model.
type CreateModelRequest struct {
	// Name is the model identifier passed to the provider ("gpt-4o-mini").
	Name string `json:"name" binding:"required,min=1,max=255" example:"gpt-4o-mini"`
}

// CreateModel godoc
// @ID          createModel
// @Summary     Register a model
// @Description Registers a model name under one of the user's providers.
// @Tags        Models
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
// @Param       body       body    handlers.CreateModelRequest  true  "Model payload"
//
// @Success     201  {object}  domain.Model
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider not found"
// @Router      /providers/{id}/models [post]
func (h *Handlers) CreateModel(c *gin.Context) {
	providerID := c.Param("id")
	if _, err := uuid.Parse(providerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}

	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	m, err := h.modelSvc.Create(c.Request.Context(), userID(c), providerID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProviderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
		case errors.Is(err, services.ErrEmptyName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListModels godoc
// @ID          listModels
// @Summary     List models of a provider
// @Tags        Models
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
//
// @Success     200  {array}   domain.Model
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider not found"
// @Router      /providers/{id}/models [get]
func (h *Handlers) ListModels(c *gin.Context) {
	providerID := c.Param("id")
	if _, err := uuid.Parse(providerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}

	out, err := h.modelSvc.List(c.Request.Context(), userID(c), providerID)
	if err != nil {
		if errors.Is(err, services.ErrProviderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, out)
}

// DeleteModel godoc
// @ID          deleteModel
// @Summary     Remove a model
// @Tags        Models
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
// @Param       modelId    path    string  true  "Model ID (UUID)"        format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider or model not found"
// @Router      /providers/{id}/models/{modelId} [delete]
func (h *Handlers) DeleteModel(c *gin.Context) {
	providerID := c.Param("id")
	modelID := c.Param("modelId")
	if _, err := uuid.Parse(providerID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}
	if _, err := uuid.Parse(modelID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "model id must be a UUID")
		return
	}

	if err := h.modelSvc.Delete(c.Request.Context(), userID(c), providerID, modelID); err != nil {
		switch {
		case errors.Is(err, services.ErrProviderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
		case errors.Is(err, services.ErrModelNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "model not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	noContent(c)
}
