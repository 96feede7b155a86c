package auth

import (
	"errors"
	"strings"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

const (
	minPasswordLength = 12
	// bcrypt ignores input past 72 bytes and x/crypto rejects it outright.
	maxPasswordBytes = 72
)

// CheckPasswordStrength enforces the account password policy: at least 12
// characters with an upper case letter, a lower case letter, a digit and a
// symbol.
func CheckPasswordStrength(password string) error {
	if strings.TrimSpace(password) != password {
		return ErrWeakPassword
	}
	if len([]rune(password)) < minPasswordLength || len(password) > maxPasswordBytes {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}
