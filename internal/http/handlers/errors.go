// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// in this package. Codes are lowercase snake_case and mirror common HTTP
// status semantics; domain-specific codes cover business failures a status
// alone cannot convey. Clients branch on these codes for programmatic error
// handling.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeUpdateFailed     = "update_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeSendFailed       = "send_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
