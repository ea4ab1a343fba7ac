package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	t.Run("Rejects an empty key", func(t *testing.T) {
		_, err := Sign([]byte("data"), nil)
		require.Error(t, err)
	})

	t.Run("Matches the RFC 4231 test case 2", func(t *testing.T) {
		signature, err := SignHex([]byte("what do ya want for nothing?"), []byte("Jefe"))
		require.NoError(t, err)
		assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", signature)
	})

	t.Run("Different keys give different signatures", func(t *testing.T) {
		a, err := Sign([]byte("data"), []byte("key-a"))
		require.NoError(t, err)
		b, err := Sign([]byte("data"), []byte("key-b"))
		require.NoError(t, err)
		assert.NotEqual(t, hex.EncodeToString(a), hex.EncodeToString(b))
	})
}

func TestEqualHex(t *testing.T) {
	assert.True(t, EqualHex("abcdef", "abcdef"))
	assert.False(t, EqualHex("abcdef", "abcdee"))
	assert.False(t, EqualHex("abcdef", "abcde"))
	assert.False(t, EqualHex("abcdef", ""))
}
