package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var usernameFolder = cases.Fold()

// NormalizeUsername trims and case-folds a handle so "Alice" and "alice"
// collide on the unique index.
func NormalizeUsername(username string) string {
	return usernameFolder.String(strings.TrimSpace(username))
}

// ValidateUsername validates an already normalized handle.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}

	n := utf8.RuneCountInString(username)
	if n < 3 {
		return errors.New("username is too short (min 3 characters)")
	}
	if n > 30 {
		return errors.New("username is too long (max 30 characters)")
	}

	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return errors.New("username may only contain letters, digits, '.' and '_'")
		}
	}

	return nil
}
