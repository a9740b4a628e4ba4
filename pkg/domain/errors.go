package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	// Fields carries per-field validation messages keyed by JSON field name.
	Fields map[string]string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnavailable  = "UNAVAILABLE"
)

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewFieldValidationError creates a validation error listing every offending field.
func NewFieldValidationError(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError() error {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required",
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(msg string) error {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: msg,
	}
}

// NewInternalError wraps a store or infrastructure failure
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(msg string) error {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: msg,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(msg string) error {
	return &DomainError{
		Code:    ErrCodeBadRequest,
		Message: msg,
	}
}

// NewUnavailableError reports a downstream collaborator (email, CRM) failure.
func NewUnavailableError(msg string, err error) error {
	return &DomainError{
		Code:    ErrCodeUnavailable,
		Message: msg,
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool { return hasCode(err, ErrCodeForbidden) }

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool { return hasCode(err, ErrCodeInternal) }

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool { return hasCode(err, ErrCodeBadRequest) }

// IsUnavailable checks if a downstream collaborator failed
func IsUnavailable(err error) bool { return hasCode(err, ErrCodeUnavailable) }

// GetErrorCode extracts the error code from a domain error
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternal
}

// FieldErrors returns the per-field messages of a validation error, if any.
func FieldErrors(err error) map[string]string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// GetErrorMessage returns the user-facing message of a domain error, or ""
func GetErrorMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
