package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Sign creates an HMAC-SHA256 signature for the given data.
func Sign(data []byte, secretKey []byte) ([]byte, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("secret key cannot be empty")
	}

	h := hmac.New(sha256.New, secretKey)
	if _, err := h.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write data to hmac: %w", err)
	}

	return h.Sum(nil), nil
}

// SignHex is Sign with the signature hex encoded (lowercase).
func SignHex(data []byte, secretKey []byte) (string, error) {
	signature, err := Sign(data, secretKey)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(signature), nil
}

// EqualHex compares two signature strings in constant time. Strings of
// different length are never equal, the length itself is not secret.
func EqualHex(expected string, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
