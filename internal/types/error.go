package types

import "fmt"

// Error types used across the service. Handlers map these to HTTP statuses
// and a localized {"error": message} body.
const (
	ErrTypeNotFound   = "not_found"
	ErrTypeValidation = "validation"
	ErrTypeConflict   = "conflict"
	ErrTypeExternal   = "external"
	ErrTypeGeneric    = "generic"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NotFound builds a 404 error with a localized message.
func NotFound(message string) *AppError {
	return &AppError{Code: 404, Message: message, Type: ErrTypeNotFound}
}

// Validation builds a 400 error for malformed input.
func Validation(message string) *AppError {
	return &AppError{Code: 400, Message: message, Type: ErrTypeValidation}
}

// Conflict builds a 409 error for uniqueness violations.
func Conflict(message string) *AppError {
	return &AppError{Code: 409, Message: message, Type: ErrTypeConflict}
}

// External builds a 503 error for unconfigured or failing external services.
func External(message string) *AppError {
	return &AppError{Code: 503, Message: message, Type: ErrTypeExternal}
}
