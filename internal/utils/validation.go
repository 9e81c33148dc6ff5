package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Compiled regular expressions for validation
var (
	// Alphanumeric, underscore, hyphen, dot and colon; GTFS stop ids use all of them
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// MaxLimit caps the number of departures a single request may ask for.
const MaxLimit = 500

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateQuery validates search query strings
func ValidateQuery(query string) error {
	// Empty queries are allowed
	if query == "" {
		return nil
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	if _, err := ParseDate(date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// ValidateTimeOfDay validates HH:MM strings. Empty means "any time".
func ValidateTimeOfDay(value string) error {
	if value == "" {
		return nil
	}

	if _, err := ParseTimeOfDay(value); err != nil {
		return errors.New("invalid time format, use HH:MM")
	}

	return nil
}

// ParseLimit parses the limit query parameter. Empty yields 0 (no limit).
func ParseLimit(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("limit must be a number")
	}
	if limit < 0 {
		return 0, errors.New("limit must be non-negative")
	}
	if limit > MaxLimit {
		return 0, errors.New("limit too large (max 500)")
	}

	return limit, nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
