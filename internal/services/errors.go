// Package services defines the business logic for providers, models,
// prompts, chats, and messages. This file centralizes common service-level
// error values so that they can be consistently returned by service
// methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer. Completion failures deliberately do NOT appear
// here: the orchestrator absorbs them into the interaction log instead of
// returning them (see MessageService.Send).
package services

import "errors"

var (
	// ErrChatNotFound indicates that the requested chat does not exist or
	// is not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrProviderNotFound indicates that the requested provider does not
	// exist or is not accessible to the current user.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrModelNotFound indicates that the referenced model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrPromptNotFound indicates that the referenced prompt does not
	// exist or is not accessible to the current user.
	ErrPromptNotFound = errors.New("prompt not found")

	// ErrEmptyPrompt is returned when a request to create a message
	// contains an empty prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when a message prompt exceeds the maximum
	// configured length limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrEmptyName is returned when a provider/model/prompt is created or
	// updated with a blank name.
	ErrEmptyName = errors.New("name is empty")

	// ErrInvalidBaseURL is returned when a provider's endpoint URL is
	// blank or unparseable.
	ErrInvalidBaseURL = errors.New("base url is invalid")
)
