package errors

import "net/http"

// Shown at the till when the caller has nothing more specific to say. The
// checkout script displays data.message as-is, so these stay cashier readable.
var defaultMessages = map[int]string{
	http.StatusBadRequest:          "The request was incomplete. Please refresh the page and try again.",
	http.StatusUnauthorized:        "Your session could not be established. Please refresh the page and try again.",
	http.StatusForbidden:           "This action is not allowed.",
	http.StatusNotFound:            "Nothing was found for this request.",
	http.StatusUnprocessableEntity: "The request could not be applied.",
	http.StatusInternalServerError: "Something went wrong on our side. Please try again.",
}

// DefaultMessage returns the fallback client message for a status code.
func DefaultMessage(code int) string {
	if message, ok := defaultMessages[code]; ok {
		return message
	}
	return http.StatusText(code)
}

func withDefault(code int, message string, underlyingErr error, details []interface{}) *AppError {
	if message == "" {
		message = DefaultMessage(code)
	}
	return NewAppError(code, message, underlyingErr, details...)
}

func NewBadRequest(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusBadRequest, message, underlyingErr, details)
}

// NewUnauthorized is used when a route requires a session and none could be loaded.
func NewUnauthorized(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusUnauthorized, message, underlyingErr, details)
}

// NewForbidden covers rejected security tokens and order keys.
func NewForbidden(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusForbidden, message, underlyingErr, details)
}

func NewNotFound(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusNotFound, message, underlyingErr, details)
}

// NewUnprocessable is for requests that are well formed but cannot be applied
// to the order as it is, a zero fee for instance.
func NewUnprocessable(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusUnprocessableEntity, message, underlyingErr, details)
}

func NewInternalServerError(message string, underlyingErr error, details ...interface{}) *AppError {
	return withDefault(http.StatusInternalServerError, message, underlyingErr, details)
}

// NewValidationFailed is a 422 whose details are the flattened validator errors
// of underlyingErr, ahead of any details passed in.
func NewValidationFailed(message string, underlyingErr error, details ...interface{}) *AppError {
	if formatted := FormatValidationErrors(underlyingErr); formatted != nil {
		details = append([]interface{}{formatted}, details...)
	}
	if message == "" {
		message = "Input validation failed."
	}
	return NewAppError(http.StatusUnprocessableEntity, message, underlyingErr, details...)
}
