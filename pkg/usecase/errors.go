package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrFormNotFound     = errors.New("form not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrLinkNotFound     = errors.New("public link not found")
	ErrSessionNotFound  = errors.New("option session not found")

	// State errors
	ErrFormNotPublished = errors.New("form is not published")
	ErrLinkNotUsable    = errors.New("public link is revoked or expired")
	ErrNoExportMapping  = errors.New("form has no export mapping for entity type")
	ErrAlreadyExported  = errors.New("response is already exported to entity type")
)

// Context keys for error values
const (
	FormIDKey     = "form_id"
	ResponseIDKey = "response_id"
	LinkIDKey     = "link_id"
	SessionIDKey  = "session_id"
)
