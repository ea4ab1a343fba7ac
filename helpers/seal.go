package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// AESKeySize32 is for AES-256 (32 bytes), the only size the session cookie uses.
const AESKeySize32 = 32

// GenerateSymmetricKey creates a new random AES-256 key.
func GenerateSymmetricKey() ([]byte, error) {
	key := make([]byte, AESKeySize32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize32 {
		return nil, fmt.Errorf("invalid key size: must be %d bytes, got %d", AESKeySize32, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher block: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM AEAD: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with AES-GCM and returns it base64url encoded with the
// nonce prepended. associatedData binds the value to its purpose (e.g. the cookie name).
func Seal(key []byte, plaintext string, associatedData string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), []byte(associatedData))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Any tampering, a wrong key or wrong associated data is an error.
func Open(key []byte, sealed string, associatedData string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("sealed value is too short (missing nonce)")
	}

	plaintext, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], []byte(associatedData))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt or authenticate data: %w", err)
	}

	return string(plaintext), nil
}
