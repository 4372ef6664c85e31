// Provider HTTP handlers.
//
// This file exposes REST endpoints for provider resources:
//   - POST   /providers        (create)
//   - GET    /providers        (list)
//   - GET    /providers/{id}   (fetch one)
//   - PUT    /providers/{id}   (update; empty or masked api_key keeps the stored one)
//   - DELETE /providers/{id}   (delete)
//
// Every provider representation that leaves this layer carries a masked
// credential; the service handles the redaction.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/g8d3/ai-chat-dev/internal/services"
)

// CreateProviderRequest is the JSON payload for registering a provider.
type CreateProviderRequest struct {
	// Name labels the provider ("OpenRouter", "local vLLM", ...).
	Name string `json:"name" binding:"required,min=1,max=255" example:"OpenRouter"`
	// BaseURL is the endpoint root of an OpenAI-compatible API.
	BaseURL string `json:"base_url" binding:"required" example:"https://openrouter.ai/api/v1"`
	// APIKey is the credential sent as a Bearer token on completions.
	APIKey string `json:"api_key" example:"sk-or-v1-..."`
}

// UpdateProviderRequest is the JSON payload for updating a provider. An
// empty or fully-masked APIKey keeps the stored credential.
type UpdateProviderRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	BaseURL string `json:"base_url" binding:"required"`
	APIKey  string `json:"api_key"`
}

// CreateProvider godoc
// @ID          createProvider
// @Summary     Register a provider
// @Description Registers an OpenAI-compatible endpoint for the current user. The response masks the API key.
// @Tags        Providers
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateProviderRequest  true  "Provider payload"
//
// @Success     201  {object}  domain.Provider
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /providers [post]
func (h *Handlers) CreateProvider(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and base_url required")
		return
	}

	p, err := h.providerSvc.Create(c.Request.Context(), userID(c), req.Name, req.BaseURL, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		case errors.Is(err, services.ErrInvalidBaseURL):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "base_url must be an absolute URL")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListProviders godoc
// @ID          listProviders
// @Summary     List providers
// @Description Returns the current user's providers with masked API keys.
// @Tags        Providers
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {array}   domain.Provider
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /providers [get]
func (h *Handlers) ListProviders(c *gin.Context) {
	out, err := h.providerSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, out)
}

// GetProvider godoc
// @ID          getProvider
// @Summary     Fetch a provider
// @Tags        Providers
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
//
// @Success     200  {object}  domain.Provider
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider not found"
// @Router      /providers/{id} [get]
func (h *Handlers) GetProvider(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}

	p, err := h.providerSvc.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrProviderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateProvider godoc
// @ID          updateProvider
// @Summary     Update a provider
// @Description Updates name/base_url. Sending the masked or empty api_key keeps the stored credential.
// @Tags        Providers
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
// @Param       body       body    handlers.UpdateProviderRequest  true  "Provider payload"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider not found"
// @Router      /providers/{id} [put]
func (h *Handlers) UpdateProvider(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and base_url required")
		return
	}

	err := h.providerSvc.Update(c.Request.Context(), userID(c), id, req.Name, req.BaseURL, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProviderNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
		case errors.Is(err, services.ErrEmptyName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		case errors.Is(err, services.ErrInvalidBaseURL):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "base_url must be an absolute URL")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	noContent(c)
}

// DeleteProvider godoc
// @ID          deleteProvider
// @Summary     Delete a provider
// @Description Deletes a provider; its models are removed with it.
// @Tags        Providers
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Provider ID (UUID)"     format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Provider not found"
// @Router      /providers/{id} [delete]
func (h *Handlers) DeleteProvider(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "provider id must be a UUID")
		return
	}

	if err := h.providerSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, services.ErrProviderNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "provider not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}
