package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutputStruct struct {
	Message string `json:"message" validate:"required"`
	Reload  bool   `json:"reload"`
	Cache   string `json:"-" header:"Cache-Control"`
}

func TestOutputData(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("Valid output with headers", func(t *testing.T) {
		headers, result, err := OutputData(engine, &testOutputStruct{
			Message: "Credit card fee removed",
			Reload:  true,
			Cache:   "no-store",
		})
		require.Nil(t, err)
		require.NotNil(t, result)
		assert.Equal(t, map[string]string{"Cache-Control": "no-store"}, headers)
		assert.True(t, result.Reload)
	})

	t.Run("Empty header fields are skipped", func(t *testing.T) {
		headers, _, err := OutputData(engine, &testOutputStruct{Message: "ok"})
		require.Nil(t, err)
		assert.Empty(t, headers)
	})

	t.Run("Non-string header fields are skipped", func(t *testing.T) {
		type badHeader struct {
			Count int `header:"X-Count"`
		}
		headers, _, err := OutputData(engine, &badHeader{Count: 3})
		require.Nil(t, err)
		assert.Empty(t, headers)
	})

	t.Run("Invalid output is a server error", func(t *testing.T) {
		_, result, err := OutputData(engine, &testOutputStruct{})
		require.NotNil(t, err)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusInternalServerError, err.Code)
	})

	t.Run("Nil output", func(t *testing.T) {
		_, _, err := OutputData[testOutputStruct](engine, nil)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusInternalServerError, err.Code)
	})
}
