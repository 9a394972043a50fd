package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Domain Error Types
// ============================================================================

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// PublicMessage returns the message that is safe to show to clients
func (e *DomainError) PublicMessage() string {
	if e.Cause != nil && e.Code == ErrValidationFailed.Code {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ============================================================================
// Common Domain Errors
// ============================================================================

var (
	// User Errors
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrUserAlreadyExists = &DomainError{
		Code:    "USER_ALREADY_EXISTS",
		Message: "user with this username already exists",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid username or password",
	}

	// Validation Errors
	ErrValidationFailed = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
	}
	ErrRequiredFieldMissing = &DomainError{
		Code:    "REQUIRED_FIELD_MISSING",
		Message: "required field is missing",
	}

	// Infrastructure Errors
	ErrDatabaseOperation = &DomainError{
		Code:    "DATABASE_OPERATION_FAILED",
		Message: "database operation failed",
	}
)

// ============================================================================
// Error Wrapping Helpers
// ============================================================================

// WrapUserNotFound wraps an error as a user not found error
func WrapUserNotFound(username string, cause error) error {
	return &DomainError{
		Code:    ErrUserNotFound.Code,
		Message: fmt.Sprintf("user not found: %s", username),
		Cause:   cause,
	}
}

// WrapUserAlreadyExists wraps an error as a user already exists error
func WrapUserAlreadyExists(username string, cause error) error {
	return &DomainError{
		Code:    ErrUserAlreadyExists.Code,
		Message: fmt.Sprintf("user already exists: %s", username),
		Cause:   cause,
	}
}

// WrapValidationError wraps an error as a validation failure for field
func WrapValidationError(field string, cause error) error {
	return &DomainError{
		Code:    ErrValidationFailed.Code,
		Message: fmt.Sprintf("validation failed for %s", field),
		Cause:   cause,
	}
}

// WrapDatabaseOperation wraps an error as a database operation failure
func WrapDatabaseOperation(operation string, cause error) error {
	return &DomainError{
		Code:    ErrDatabaseOperation.Code,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Cause:   cause,
	}
}

// ============================================================================
// Error Checking Helpers
// ============================================================================

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return hasCode(err, ErrUserNotFound.Code)
}

// IsConflictError checks if an error is a duplicate-resource error
func IsConflictError(err error) bool {
	return hasCode(err, ErrUserAlreadyExists.Code)
}

// IsCredentialsError checks if an error is a failed sign-in
func IsCredentialsError(err error) bool {
	return hasCode(err, ErrInvalidCredentials.Code)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasCode(err, ErrValidationFailed.Code, ErrRequiredFieldMissing.Code)
}

// IsInfrastructureError checks if an error is an infrastructure error
func IsInfrastructureError(err error) bool {
	return hasCode(err, ErrDatabaseOperation.Code)
}

func hasCode(err error, codes ...string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	for _, code := range codes {
		if domainErr.Code == code {
			return true
		}
	}
	return false
}
