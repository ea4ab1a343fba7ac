package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSymmetricKey(t *testing.T) {
	key1, err := GenerateSymmetricKey()
	require.NoError(t, err)
	key2, err := GenerateSymmetricKey()
	require.NoError(t, err)

	assert.Len(t, key1, AESKeySize32)
	assert.NotEqual(t, key1, key2)
}

func TestSealOpen(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	t.Run("Round trip", func(t *testing.T) {
		sealed, err := Seal(key, "session-id", "ccf_session")
		require.NoError(t, err)

		opened, err := Open(key, sealed, "ccf_session")
		require.NoError(t, err)
		assert.Equal(t, "session-id", opened)
	})

	t.Run("Each seal is different", func(t *testing.T) {
		a, _ := Seal(key, "same", "")
		b, _ := Seal(key, "same", "")
		assert.NotEqual(t, a, b)
	})

	t.Run("Wrong key fails", func(t *testing.T) {
		other, _ := GenerateSymmetricKey()
		sealed, _ := Seal(key, "secret", "")
		_, err := Open(other, sealed, "")
		assert.Error(t, err)
	})

	t.Run("Wrong associated data fails", func(t *testing.T) {
		sealed, _ := Seal(key, "secret", "context1")
		_, err := Open(key, sealed, "context2")
		assert.Error(t, err)
	})

	t.Run("Tampered value fails", func(t *testing.T) {
		sealed, _ := Seal(key, "secret", "")
		tampered := []byte(sealed)
		if tampered[0] == 'A' {
			tampered[0] = 'B'
		} else {
			tampered[0] = 'A'
		}
		_, err := Open(key, string(tampered), "")
		assert.Error(t, err)
	})

	t.Run("Garbage and short values fail", func(t *testing.T) {
		_, err := Open(key, "not base64 !!", "")
		assert.Error(t, err)
		_, err = Open(key, "c2hvcnQ", "")
		assert.Error(t, err)
	})

	t.Run("Invalid key size fails", func(t *testing.T) {
		_, err := Seal([]byte("short"), "secret", "")
		assert.Error(t, err)
	})
}
