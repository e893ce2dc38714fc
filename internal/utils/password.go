package utils

import (
	"errors"
	"strings"
	"unicode"

	"github.com/yukikurage/team-task-tracker/internal/constants"
)

// PasswordSpecialChars is the set of symbols that satisfy the special character rule
const PasswordSpecialChars = "@$!%*?&"

var ErrWeakPassword = errors.New("password must be 8 to 64 characters long and contain an uppercase letter, a lowercase letter, a digit and one of @$!%*?&")

// ValidatePasswordStrength checks length and character class requirements
func ValidatePasswordStrength(password string) error {
	n := len([]rune(password))
	if n < constants.MinPasswordLength || n > constants.MaxPasswordLength {
		return ErrWeakPassword
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
