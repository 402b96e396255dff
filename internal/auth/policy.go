package auth

import (
	"errors"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var ErrWeakPassword = errors.New("password must be at least 6 characters and contain an uppercase letter")

// NormalizeEmail trims and lowercases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the registration policy: MinPasswordLength
// characters and at least one uppercase letter.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			return nil
		}
	}
	return ErrWeakPassword
}
