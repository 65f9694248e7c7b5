package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GeneratePassword returns a random password in the format
// XXXX-XXXX-XXXX-XXXX, used when an operator bootstraps an admin account
// without supplying one.
func GeneratePassword() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	h := hex.EncodeToString(bytes)
	return fmt.Sprintf("%s-%s-%s-%s", h[0:4], h[4:8], h[8:12], h[12:16]), nil
}
