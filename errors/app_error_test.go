package errors

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestAppError_Error(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		underlyingErr := errors.New("order store offline")
		appErr := NewAppError(http.StatusInternalServerError, "Something went wrong", underlyingErr)
		expected := fmt.Sprintf("AppError: Code=%d, Message=%s, UnderlyingError=%v", http.StatusInternalServerError, "Something went wrong", underlyingErr)
		if appErr.Error() != expected {
			t.Errorf("Expected error string '%s', got '%s'", expected, appErr.Error())
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		appErr := NewAppError(http.StatusBadRequest, "Order ID not found.", nil)
		expected := fmt.Sprintf("AppError: Code=%d, Message=%s", http.StatusBadRequest, "Order ID not found.")
		if appErr.Error() != expected {
			t.Errorf("Expected error string '%s', got '%s'", expected, appErr.Error())
		}
	})
}

func TestAppError_Unwrap(t *testing.T) {
	underlyingErr := errors.New("original error")
	appErr := NewAppError(http.StatusInternalServerError, "Wrapper error", underlyingErr)

	if !errors.Is(appErr, underlyingErr) {
		t.Errorf("Expected errors.Is to find '%v'", underlyingErr)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	t.Run("with nil error", func(t *testing.T) {
		if formatted := FormatValidationErrors(nil); formatted != nil {
			t.Errorf("Expected nil for a nil error, got '%v'", formatted)
		}
	})

	t.Run("with validator.ValidationErrors", func(t *testing.T) {
		type FeeRequest struct {
			OrderID string `validate:"required"`
		}
		err := validator.New().Struct(FeeRequest{})

		formatted := FormatValidationErrors(err)
		expected := map[string]string{
			"FeeRequest.OrderID": "failed on validation tag 'required'",
		}

		if !reflect.DeepEqual(formatted, expected) {
			t.Errorf("Expected formatted validation errors '%v', got '%v'", expected, formatted)
		}
	})

	t.Run("with other non-nil error", func(t *testing.T) {
		formatted := FormatValidationErrors(errors.New("a simple error"))
		if formatted != "a simple error" {
			t.Errorf("Expected formatted error to be 'a simple error', got '%v'", formatted)
		}
	})
}

func TestAppError_ToJSONResponse(t *testing.T) {
	appErr := NewAppError(http.StatusInternalServerError, "Server Error", errors.New("internal issue"), "some details")

	t.Run("in production mode", func(t *testing.T) {
		expected := map[string]interface{}{
			"success": false,
			"data": map[string]interface{}{
				"message": "Server Error",
				"details": "some details",
			},
		}
		if got := appErr.ToJSONResponse(true); !reflect.DeepEqual(got, expected) {
			t.Errorf("Expected JSON response '%v', got '%v'", expected, got)
		}
	})

	t.Run("in development mode", func(t *testing.T) {
		expected := map[string]interface{}{
			"success": false,
			"data": map[string]interface{}{
				"message":          "Server Error",
				"details":          "some details",
				"underlying_error": "internal issue",
			},
		}
		if got := appErr.ToJSONResponse(false); !reflect.DeepEqual(got, expected) {
			t.Errorf("Expected JSON response '%v', got '%v'", expected, got)
		}
	})
}
