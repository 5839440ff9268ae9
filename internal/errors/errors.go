// Package errors provides unified error handling across the zero-edit system.
//
// SYSTEM ARCHITECTURE ROLE:
// This module serves as the foundation for error handling across all interfaces (CLI, HTTP, TUI).
// It standardizes error representation, categorization, and handling patterns throughout the application.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent error identification
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while maintaining consistent core error data
// - Distinguish deterministic generation failures (never retryable) from storage failures
//
// INTEGRATION POINTS:
// - internal/engine: Select/Compose/ComposeRange return AppErrors for bad coordinates or references
// - internal/validation/validator.go: ValidationResult.ToAppError() converts validation failures
// - internal/storage/storage.go: file system failures wrapped as storage AppErrors
// - internal/service/service.go: Service layer operations wrap errors as AppErrors
// - internal/api/server.go: HTTPErrorHandler maps AppErrors to HTTP status codes and JSON
// - internal/cli/cli.go: CLIErrorHandler formats AppErrors for terminal display
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like UnknownPoolError(), EmptyPoolError()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Handle errors: Use error handlers specific to interface (CLI, HTTP, TUI)
// - Check types: Use IsAppError() and GetAppError() for type-safe error handling
//
// Every generation error is a deterministic function of (profile, arguments):
// retrying with identical inputs reproduces the identical failure, so only
// storage-layer errors carry the retryable flag.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Profile structure errors
	ErrCodeMalformedProfile      ErrorCode = "MALFORMED_PROFILE"
	ErrCodeEmptyProfile          ErrorCode = "EMPTY_PROFILE"
	ErrCodeUnresolvedPlaceholder ErrorCode = "UNRESOLVED_PLACEHOLDER"
	ErrCodeUnknownPool           ErrorCode = "UNKNOWN_POOL"
	ErrCodeEmptyPool             ErrorCode = "EMPTY_POOL"

	// Generation argument errors
	ErrCodeInvalidPool  ErrorCode = "INVALID_POOL"
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Service errors
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Command errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeInvalidCommand  ErrorCode = "INVALID_COMMAND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryProfile    ErrorCategory = "profile"
	CategoryGeneration ErrorCategory = "generation"
	CategoryValidation ErrorCategory = "validation"
	CategoryStorage    ErrorCategory = "storage"
	CategoryService    ErrorCategory = "service"
	CategoryCommand    ErrorCategory = "command"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Cause:     err,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	// Profile structure errors block all generation with that profile
	case ErrCodeMalformedProfile, ErrCodeEmptyProfile, ErrCodeUnresolvedPlaceholder,
		ErrCodeUnknownPool, ErrCodeEmptyPool:
		return CategoryProfile, SeverityError

	// Bad caller arguments are fatal to the single call only
	case ErrCodeInvalidPool, ErrCodeInvalidRange:
		return CategoryGeneration, SeverityWarning

	// Validation errors
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidFormat:
		return CategoryValidation, SeverityWarning

	// Resource errors
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryService, SeverityWarning

	// Storage errors
	case ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	// Service errors
	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotImplemented:
		return CategoryService, SeverityInfo

	// Command errors
	case ErrCodeCommandNotFound:
		return CategoryCommand, SeverityInfo
	case ErrCodeInvalidCommand:
		return CategoryCommand, SeverityError

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable determines if an error is retryable based on its code.
// Generation and validation failures are deterministic functions of their
// inputs and never retryable.
func isRetryable(code ErrorCode) bool {
	return code == ErrCodeStorageFailure
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func MalformedProfileError(field string, err error) *AppError {
	return Wrap(err, ErrCodeMalformedProfile, fmt.Sprintf("Profile field '%s' is malformed", field))
}

func EmptyProfileError() *AppError {
	return NewAppError(ErrCodeEmptyProfile, "Profile has no templates")
}

func UnknownPoolError(name string) *AppError {
	return NewAppError(ErrCodeUnknownPool, fmt.Sprintf("Template references undefined pool '%s'", name))
}

func EmptyPoolError(name string) *AppError {
	return NewAppError(ErrCodeEmptyPool, fmt.Sprintf("Pool '%s' is empty", name))
}

func InvalidPoolError(length int) *AppError {
	return NewAppError(ErrCodeInvalidPool, fmt.Sprintf("Selection requires a positive pool length, got %d", length))
}

func InvalidRangeError(count int) *AppError {
	return NewAppError(ErrCodeInvalidRange, fmt.Sprintf("Batch count must be at least 1, got %d", count))
}

func CommandNotFoundError(command string) *AppError {
	return NewAppError(ErrCodeCommandNotFound, fmt.Sprintf("Command '%s' not found", command))
}

func InvalidCommandError(command string, reason string) *AppError {
	return NewAppError(ErrCodeInvalidCommand, fmt.Sprintf("Invalid command '%s': %s", command, reason))
}
