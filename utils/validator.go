// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength. The full name is rejected as a
// substring case-insensitively so a signup password can't echo the account name.
func ValidatePassword(password, fullName string) (bool, string) {
	if len(password) < 9 {
		return false, "Password must be at least 9 characters"
	}

	hasLetter := false
	hasSymbol := false
	allDigits := true
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
			allDigits = false
		case unicode.IsDigit(r):
		default:
			hasSymbol = true
			allDigits = false
		}
	}

	if allDigits {
		return false, "Password must not be purely numeric"
	}
	if !hasLetter {
		return false, "Password must contain at least one letter"
	}
	if !hasSymbol {
		return false, "Password must contain at least one symbol"
	}

	name := strings.TrimSpace(fullName)
	if name != "" && strings.Contains(strings.ToLower(password), strings.ToLower(name)) {
		return false, "Password must not contain your name"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
