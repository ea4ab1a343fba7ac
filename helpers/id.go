package helpers

import (
	"crypto/rand"
	"fmt"
	"io"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxUnbiased is the largest multiple of len(charset) that fits in a byte,
// bytes at or above it are thrown away so every character is equally likely.
const maxUnbiased = 256 - (256 % len(charset))

// GenerateID returns a cryptographically random alphanumeric string.
func GenerateID(length int) (string, error) {
	return generateID(rand.Reader, length)
}

func generateID(source io.Reader, length int) (string, error) {
	result := make([]byte, 0, length)
	buffer := make([]byte, length+length/4+1)

	for len(result) < length {
		if _, err := io.ReadFull(source, buffer); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}

		for _, b := range buffer {
			if int(b) >= maxUnbiased {
				continue
			}
			result = append(result, charset[int(b)%len(charset)])
			if len(result) == length {
				break
			}
		}
	}

	return string(result), nil
}
