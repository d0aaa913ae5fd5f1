package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a password reset token. 32 bytes gives
// 256 bits, hex-encoded to 64 characters.
const ResetTokenBytes = 32

// GenerateResetToken returns a cryptographically secure random token for
// password resets.
func GenerateResetToken() (string, error) {
	return generateSecureToken(ResetTokenBytes)
}

// generateSecureToken generates length random bytes, hex-encoded
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
