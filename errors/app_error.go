package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AppError represents an error that is reported back to the checkout script.
// It includes an HTTP status code, a user-facing message, the original
// underlying error (for logging), and optional details.
type AppError struct {
	// Code is the HTTP status code that should be sent to the client.
	Code int `json:"-"`

	// Message is shown to the cashier as-is, keep it human.
	Message string `json:"message"`

	// Err is the underlying original error, only for logs and non-release responses.
	Err error `json:"-"`

	// Details can hold any additional structured information (validation output mostly).
	Details interface{} `json:"details,omitempty"`
}

// Error implements the standard error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AppError: Code=%d, Message=%s, UnderlyingError=%v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("AppError: Code=%d, Message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error chaining (errors.Is / errors.As).
func (e *AppError) Unwrap() error {
	return e.Err
}

// FormatValidationErrors converts validator.ValidationErrors into a map for structured client responses.
// Any other non-nil error is returned as its message, nil stays nil.
func FormatValidationErrors(err error) interface{} {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make(map[string]string)
		for _, fe := range ves {
			out[fe.Namespace()] = fmt.Sprintf("failed on validation tag '%s'", fe.Tag())
		}
		return out
	}

	return err.Error()
}

// NewAppError creates a new AppError, only the first details argument is kept.
func NewAppError(code int, message string, underlyingErr error, details ...interface{}) *AppError {
	var d interface{}
	if len(details) > 0 {
		d = details[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Err:     underlyingErr,
		Details: d,
	}
}

// ToJSONResponse renders the error in the envelope the checkout script reads:
// {"success": false, "data": {"message": ...}}.
func (e *AppError) ToJSONResponse(production bool) map[string]interface{} {
	data := map[string]interface{}{
		"message": e.Message,
	}

	if e.Details != nil {
		data["details"] = e.Details
	}

	if e.Err != nil && !production {
		data["underlying_error"] = e.Err.Error()
	}

	return map[string]interface{}{
		"success": false,
		"data":    data,
	}
}
