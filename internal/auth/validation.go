package auth

import (
	"regexp"
	"strings"

	"github.com/historisense/portal/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail performs the pre-submission email shape check.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces the signup password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit, and a
// special character. Hashing is the backend's concern; the portal checks
// shape only.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(`!@#$%^&*()_+-=[]{};':"\|,.<>/?`, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// ConfirmPasswordMatch checks the confirmation field.
func ConfirmPasswordMatch(password, confirm string) bool {
	return password == confirm
}

// ValidateFullName requires at least two words.
func ValidateFullName(fullName string) bool {
	return len(strings.Fields(fullName)) >= 2
}

// ValidateUserType requires one of the known account roles.
func ValidateUserType(userType string) bool {
	_, ok := domain.ParseRole(userType)
	return ok
}

// ValidateTerms requires explicit agreement.
func ValidateTerms(agreed bool) bool {
	return agreed
}
