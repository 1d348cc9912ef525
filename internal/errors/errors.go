// Package errors provides custom error types for the Ledger API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"

	"ledger/internal/summary"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// FromValidation converts a summary.ValidationError into an INVALID_INPUT or
// INVALID_CATEGORY error that keeps the validation message visible to the
// client. Any other error is returned as an internal error.
func FromValidation(err error) *AppError {
	var ve *summary.ValidationError
	if !stderrors.As(err, &ve) {
		return Wrap(ErrInternalServer, err)
	}
	sentinel := ErrInvalidInput
	if ve.Field == "category" {
		sentinel = ErrInvalidCategory
	}
	return &AppError{
		Code:       sentinel.Code,
		Message:    ve.Error(),
		StatusCode: sentinel.StatusCode,
		Internal:   err,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Record errors.
var (
	ErrRecordNotFound    = &AppError{Code: "RECORD_NOT_FOUND", Message: "Record not found", StatusCode: http.StatusNotFound}
	ErrInvalidCategory   = &AppError{Code: "INVALID_CATEGORY", Message: "Unknown category", StatusCode: http.StatusBadRequest}
	ErrInvalidRecordKind = &AppError{Code: "INVALID_RECORD_KIND", Message: "Record kind must be income or expense", StatusCode: http.StatusBadRequest}
)

// Export errors.
var (
	ErrExportFailed = &AppError{Code: "EXPORT_FAILED", Message: "Could not build the export file", StatusCode: http.StatusInternalServerError}
)
