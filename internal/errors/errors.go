// Package errors provides the error taxonomy of the treasury ledger.
// Every service-layer failure is an *AppError carrying a stable code, a
// human-readable message and the HTTP status the API binding should use,
// so the core never has to know about HTTP itself.
package errors

import (
	stderrors "errors"
	"net/http"
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

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, ErrBusy) matches any BUSY error regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

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

// IsRetryable reports whether the caller may safely retry the failed request.
// Only lock contention is retryable; business-rule failures are terminal.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrBusy)
}

// Code returns the code of the AppError in err's chain, or INTERNAL_ERROR.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer.Code
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Role is not allowed to perform this action", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Account errors.
var (
	ErrAccountNotFound     = &AppError{Code: "NOT_FOUND", Message: "Bank account not found", StatusCode: http.StatusNotFound}
	ErrInsufficientFunds   = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient account balance", StatusCode: http.StatusUnprocessableEntity}
	ErrDuplicateAccount    = &AppError{Code: "VALIDATION_ERROR", Message: "A bank account with this name or number already exists", StatusCode: http.StatusBadRequest}
	ErrSameAccountTransfer = &AppError{Code: "VALIDATION_ERROR", Message: "Cannot transfer to the same account", StatusCode: http.StatusBadRequest}
)

// Workflow errors.
var (
	ErrDocumentNotFound   = &AppError{Code: "NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransition  = &AppError{Code: "INVALID_TRANSITION", Message: "Status transition is not allowed", StatusCode: http.StatusConflict}
	ErrReceiptRequired    = &AppError{Code: "RECEIPT_REQUIRED", Message: "A receipt is required for this transition", StatusCode: http.StatusBadRequest}
	ErrBusy               = &AppError{Code: "BUSY", Message: "Resource is busy, retry the request", StatusCode: http.StatusServiceUnavailable}
	ErrSettlement         = &AppError{Code: "SETTLEMENT_ERROR", Message: "Settlement failed and was rolled back", StatusCode: http.StatusInternalServerError}
	ErrUnsupportedVariant = &AppError{Code: "VALIDATION_ERROR", Message: "Unsupported document variant", StatusCode: http.StatusBadRequest}
)
