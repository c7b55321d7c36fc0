package validation

import (
	"errors"
	"strings"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// ValidatePassword validates password strength: a minimum length, the bcrypt
// maximum and a short list of common patterns.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}

	// Maximum length: 72 bytes (bcrypt limitation)
	// bcrypt silently truncates passwords longer than 72 bytes, which is a security risk
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "letmein", "streakd",
		"welcome", "iloveyou", "abc123", "111111", "sunshine",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
