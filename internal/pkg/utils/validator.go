package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

const MaxUsernameLength = 150

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

// Add appends a message for field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// HasErrors returns true if there are any validation errors
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// First returns the first message for field, or ""
func (e FieldErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Messages flattens the errors in field order
func (e FieldErrors) Messages() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e[f]...)
	}
	return msgs
}

func (e FieldErrors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Validator accumulates field errors for cross-field and content rules
type Validator struct {
	errors FieldErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: FieldErrors{},
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string) {
	v.errors.Add(field, message)
}

// Errors returns all validation errors
func (v *Validator) Errors() FieldErrors {
	return v.errors
}

// HasErrors returns true if there are any validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "This field is required.")
		return false
	}
	return true
}

// MaxLength checks if a string doesn't exceed maximum length
func (v *Validator) MaxLength(field, value string, max int) bool {
	if n := utf8.RuneCountInString(value); n > max {
		v.AddError(field, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", max, n))
		return false
	}
	return true
}

// ValidateUsername allows letters, digits and @/./+/-/_ up to 150 characters
func (v *Validator) ValidateUsername(field, value string) bool {
	if !v.Required(field, value) {
		return false
	}
	if !v.MaxLength(field, value, MaxUsernameLength) {
		return false
	}
	if !usernameRegex.MatchString(value) {
		v.AddError(field, "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		return false
	}
	return true
}

// ValidatePassword validates a password
func (v *Validator) ValidatePassword(field, value string) bool {
	if !v.Required(field, value) {
		return false
	}
	switch ValidatePassword(value) {
	case nil:
		return true
	case ErrPasswordTooShort:
		v.AddError(field, "This password is too short. It must contain at least 8 characters.")
	case ErrPasswordTooLong:
		v.AddError(field, "This password is too long. It must contain at most 72 bytes.")
	case ErrPasswordNumeric:
		v.AddError(field, "This password is entirely numeric.")
	}
	return false
}

// Match checks that a confirmation field equals the original
func (v *Validator) Match(field, value, original, message string) bool {
	if value != original {
		v.AddError(field, message)
		return false
	}
	return true
}

// ValidateUUID validates a UUID string
func ValidateUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
