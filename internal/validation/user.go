// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return errors.New("This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > 128 {
		return errors.New("password must not exceed 128 characters")
	}

	hasLetter := false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return errors.New("This password is entirely numeric.")
	}
	if !digitRegex.MatchString(password) {
		return errors.New("password must contain at least one digit")
	}

	return nil
}

// ValidateUsername allows letters, digits and @.+-_ up to 150 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("This field is required.")
	}
	if utf8.RuneCountInString(username) > 150 {
		return errors.New("Ensure this value has at most 150 characters.")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return errors.New("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("Enter a valid email address.")
	}
	return nil
}
