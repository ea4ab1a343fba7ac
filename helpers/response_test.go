package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/grzegorzmaniak/posfee/errors"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse JSON response: %v", err)
	}
	return body
}

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Sends error envelope with proper status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		ErrorResponse(ctx, errors.NewBadRequest("Order ID not found.", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		body := decodeEnvelope(t, w)
		if body.Success {
			t.Error("Expected success=false")
		}
		if body.Data["message"] != "Order ID not found." {
			t.Errorf("Expected message 'Order ID not found.', got %v", body.Data["message"])
		}
	})

	t.Run("Handles nil error gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		ErrorResponse(ctx, nil)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status %d for nil error, got %d", http.StatusInternalServerError, w.Code)
		}
		if body := decodeEnvelope(t, w); body.Data["message"] == nil {
			t.Error("Expected a message for nil error")
		}
	})

	t.Run("Aborts context after error", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		ErrorResponse(ctx, errors.NewForbidden("Security verification failed.", nil))

		if !ctx.IsAborted() {
			t.Error("Expected context to be aborted after error response")
		}
	})

	t.Run("Release mode hides underlying errors", func(t *testing.T) {
		originalMode := gin.Mode()
		gin.SetMode(gin.ReleaseMode)
		defer gin.SetMode(originalMode)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		ErrorResponse(ctx, errors.NewInternalServerError("", errNoop{}))

		if _, exposed := decodeEnvelope(t, w).Data["underlying_error"]; exposed {
			t.Error("Expected underlying error to be hidden in release mode")
		}
	})
}

type errNoop struct{}

func (errNoop) Error() string { return "noop" }

func TestSuccessResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Wraps data in the success envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		SuccessResponse(ctx, http.StatusOK, gin.H{"message": "Credit card fee removed", "reload": true}, nil)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
		}
		body := decodeEnvelope(t, w)
		if !body.Success {
			t.Error("Expected success=true")
		}
		if body.Data["reload"] != true {
			t.Errorf("Expected reload=true, got %v", body.Data["reload"])
		}
	})

	t.Run("Sends custom headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		SuccessResponse(ctx, http.StatusOK, gin.H{"ok": true}, map[string]string{"X-Fee-Percentage": "3"})

		if w.Header().Get("X-Fee-Percentage") != "3" {
			t.Errorf("Expected X-Fee-Percentage '3', got '%s'", w.Header().Get("X-Fee-Percentage"))
		}
	})

	t.Run("Nil data means no content", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		SuccessResponse(ctx, http.StatusOK, nil, nil)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
		}
	})
}
