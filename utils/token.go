package utils

import (
	"crypto/rand"
	"encoding/hex"
	"unicode"
)

// GenerateToken returns a URL-safe random token for email verification
// and password reset links.
func GenerateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// IsValidPassword reports whether a password meets the security
// requirements: at least 8 characters with at least one digit, one
// uppercase and one lowercase letter.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasDigit, hasUpper, hasLower bool
	for _, char := range password {
		switch {
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		}
	}
	return hasDigit && hasUpper && hasLower
}
