package session

import "fmt"

// Validation failure reasons.
const (
	// ReasonMissingField indicates a required field was absent or empty.
	ReasonMissingField = "missing_field"

	// ReasonTypeMismatch indicates a field had the wrong JSON type.
	ReasonTypeMismatch = "type_mismatch"

	// ReasonOutOfRange indicates a numeric field was outside its bounds.
	ReasonOutOfRange = "out_of_range"
)

// ValidationError represents a turn-request validation failure.
// It names the offending field and is always locally recoverable: the
// caller receives the message, nothing is written to the store, and the
// provider is never invoked.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Reason classifies the failure (missing_field, type_mismatch, out_of_range)
	Reason string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConversationNotFoundError indicates a supplied conversation identifier is
// unknown to the store and the caller did not request a new conversation.
// It is deliberately distinct from ValidationError so the transport layer
// can surface it as "not found" rather than "bad request".
type ConversationNotFoundError struct {
	// ID is the unknown conversation identifier
	ID string
}

// Error implements the error interface.
func (e *ConversationNotFoundError) Error() string {
	return fmt.Sprintf("conversation %q not found", e.ID)
}

// DuplicateIDError indicates an attempt to create a conversation under an
// identifier that is already present in the store.
type DuplicateIDError struct {
	// ID is the conflicting conversation identifier
	ID string
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("conversation %q already exists", e.ID)
}
