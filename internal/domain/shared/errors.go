package shared

import "errors"

// Error codes understood by the transport layer
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so callers can match
// against the sentinel values with errors.Is regardless of the message.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidReferenceError creates an INVALID_REFERENCE error with a specific message
func NewInvalidReferenceError(message string) *DomainError {
	return NewDomainError(CodeInvalidReference, message)
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation       = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidReference = NewDomainError(CodeInvalidReference, "Referenced resource does not exist")
	ErrConflict         = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrInternal         = NewDomainError(CodeInternal, "Internal failure")
)

// ErrorCode extracts the domain code of err, or CodeInternal when err is not a DomainError
func ErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
