// Package errors provides custom error types for the fintrack API.
// Service-layer failures are reported as AppError so handlers can render a
// consistent JSON body without leaking upstream details to clients.
package errors

import "net/http"

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

// Is reports whether target is an AppError carrying the same code, so a
// wrapped sentinel still matches errors.Is(err, ErrXxx).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
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

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrSignUpFailed       = &AppError{Code: "SIGNUP_FAILED", Message: "User creation failed", StatusCode: http.StatusBadRequest}
	ErrRateLimited        = &AppError{Code: "RATE_LIMITED", Message: "Too many requests, try again later", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Upstream (hosted backend) errors.
var (
	ErrUpstreamUnavailable = &AppError{Code: "UPSTREAM_UNAVAILABLE", Message: "Network response was not ok", StatusCode: http.StatusBadGateway}
	ErrUpstreamRejected    = &AppError{Code: "UPSTREAM_REJECTED", Message: "The data service rejected the request", StatusCode: http.StatusBadGateway}
	ErrUpstreamMalformed   = &AppError{Code: "UPSTREAM_MALFORMED", Message: "The data service returned an unexpected response", StatusCode: http.StatusBadGateway}
)

// Session errors.
var (
	ErrSessionNotLoaded = &AppError{Code: "SESSION_NOT_LOADED", Message: "Load the dashboard before changing data", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Please enter a valid amount", StatusCode: http.StatusBadRequest}
	ErrCategoryRequired    = &AppError{Code: "CATEGORY_REQUIRED", Message: "Please select a category", StatusCode: http.StatusBadRequest}
)

// Savings goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Savings goal not found", StatusCode: http.StatusNotFound}
)
