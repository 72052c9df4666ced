package catalog

import (
	"strconv"
	"strings"
)

// MinSearchLength is the shortest accepted search term after trimming.
const MinSearchLength = 2

// ValidationError is a caller input problem. It is detected before any
// database work happens.
type ValidationError struct {
	Field   string
	Title   string // short label, e.g. "Invalid product ID"
	Message string // human readable detail
}

func (e *ValidationError) Error() string {
	return e.Title
}

// ParseID parses a path or query id. what names the record for messages
// ("product", "category", "customer").
func ParseID(what, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, invalidID(what)
	}
	return id, nil
}

func invalidID(what string) *ValidationError {
	return &ValidationError{
		Field:   "id",
		Title:   "Invalid " + what + " ID",
		Message: capitalize(what) + " ID must be a valid number",
	}
}

func validateID(what string, id int) error {
	if id <= 0 {
		return invalidID(what)
	}
	return nil
}

func validateSearch(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSearchLength {
		return "", &ValidationError{
			Field:   "q",
			Title:   "Invalid search query",
			Message: "Search query must be at least 2 characters long",
		}
	}
	return q, nil
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", &ValidationError{
			Field:   "email",
			Title:   "Invalid email",
			Message: "Please provide a valid email address",
		}
	}
	return email, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
