package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// RequiredMessage is the form error for a missing or blank value.
const RequiredMessage = "This field is required."

var groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateText rejects empty and whitespace-only text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New(RequiredMessage)
	}
	return nil
}

// ValidateGroupSlug accepts letters, digits, underscores and hyphens, up to 50 characters.
func ValidateGroupSlug(slug string) error {
	if slug == "" {
		return errors.New(RequiredMessage)
	}
	if len(slug) > 50 {
		return errors.New("Ensure this value has at most 50 characters.")
	}
	if !groupSlugRegex.MatchString(slug) {
		return errors.New("Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	return nil
}

// ValidateGroupTitle requires a non-blank title of at most 200 characters.
func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New(RequiredMessage)
	}
	if utf8.RuneCountInString(title) > 200 {
		return errors.New("Ensure this value has at most 200 characters.")
	}
	return nil
}
