package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// usernameRegex allows only alphanumeric characters, dots, hyphens, and underscores
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

// Reserved names that should not be used as usernames
var reservedNames = map[string]bool{
	"admin":  true,
	"root":   true,
	"system": true,
	"auth":   true,
	"local":  true,
}

// ValidateUsername validates a username chosen on the sign-up form
func ValidateUsername(name string) error {
	// Check length
	if len(name) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(name) > 64 {
		return errors.New("username must be 64 characters or less")
	}

	// Check for reserved names
	if reservedNames[strings.ToLower(name)] {
		return errors.New("username is reserved")
	}

	// Check against allowed character set
	if !usernameRegex.MatchString(name) {
		return errors.New("username must contain only letters, numbers, dots, hyphens, and underscores")
	}

	// Prevent names starting or ending with special characters
	if strings.ContainsAny(name[:1], "._-") || strings.ContainsAny(name[len(name)-1:], "._-") {
		return errors.New("username must start and end with a letter or number")
	}

	return nil
}

// ValidatePassword validates a password chosen on the sign-up form
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password must be 72 bytes or less")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be only whitespace")
	}
	return nil
}
