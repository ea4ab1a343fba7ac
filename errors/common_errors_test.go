package errors

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name            string
		build           func(string) *AppError
		expectedCode    int
		expectedDefault string
	}{
		{"BadRequest", func(m string) *AppError { return NewBadRequest(m, nil) }, http.StatusBadRequest, "The request was incomplete. Please refresh the page and try again."},
		{"Unauthorized", func(m string) *AppError { return NewUnauthorized(m, nil) }, http.StatusUnauthorized, "Your session could not be established. Please refresh the page and try again."},
		{"Forbidden", func(m string) *AppError { return NewForbidden(m, nil) }, http.StatusForbidden, "This action is not allowed."},
		{"NotFound", func(m string) *AppError { return NewNotFound(m, nil) }, http.StatusNotFound, "Nothing was found for this request."},
		{"Unprocessable", func(m string) *AppError { return NewUnprocessable(m, nil) }, http.StatusUnprocessableEntity, "The request could not be applied."},
		{"InternalServerError", func(m string) *AppError { return NewInternalServerError(m, nil) }, http.StatusInternalServerError, "Something went wrong on our side. Please try again."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := tc.build("")
			if appErr.Code != tc.expectedCode {
				t.Errorf("Expected code %d, got %d", tc.expectedCode, appErr.Code)
			}
			if appErr.Message != tc.expectedDefault {
				t.Errorf("Expected default message '%s', got '%s'", tc.expectedDefault, appErr.Message)
			}

			custom := tc.build("Order not found.")
			if custom.Message != "Order not found." {
				t.Errorf("Expected custom message to be kept, got '%s'", custom.Message)
			}
		})
	}
}

func TestDefaultMessage(t *testing.T) {
	if got := DefaultMessage(http.StatusForbidden); got != "This action is not allowed." {
		t.Errorf("Unexpected 403 default '%s'", got)
	}
	if got := DefaultMessage(http.StatusServiceUnavailable); got != "Service Unavailable" {
		t.Errorf("Expected the status text for unmapped codes, got '%s'", got)
	}
}

func TestNewBadRequestKeepsDetails(t *testing.T) {
	underlyingErr := errors.New("client error")
	appErr := NewBadRequest("Custom bad request", underlyingErr, "detail")
	if appErr.Err != underlyingErr {
		t.Errorf("Expected underlying error '%v', got '%v'", underlyingErr, appErr.Err)
	}
	if appErr.Details != "detail" {
		t.Errorf("Expected details 'detail', got '%v'", appErr.Details)
	}
}

func TestNewValidationFailed(t *testing.T) {
	t.Run("with validation errors", func(t *testing.T) {
		type FeeRequest struct {
			SecurityToken string `validate:"required"`
		}
		err := validator.New().Struct(FeeRequest{})

		appErr := NewValidationFailed("", err)
		if appErr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected code %d, got %d", http.StatusUnprocessableEntity, appErr.Code)
		}
		if appErr.Message != "Input validation failed." {
			t.Errorf("Expected message 'Input validation failed.', got '%s'", appErr.Message)
		}

		expectedDetails := map[string]string{"FeeRequest.SecurityToken": "failed on validation tag 'required'"}
		if !reflect.DeepEqual(appErr.Details, expectedDetails) {
			t.Errorf("Expected details '%v', got '%v'", expectedDetails, appErr.Details)
		}
	})

	t.Run("with non-validation error", func(t *testing.T) {
		appErr := NewValidationFailed("Validation failed", errors.New("some other error"))
		if appErr.Details != "some other error" {
			t.Errorf("Expected details to contain 'some other error', got '%v'", appErr.Details)
		}
	})
}
