package validation

import (
	"fmt"
	"regexp"
	"unicode/utf16"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/schema"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[0-9]*$`)
)

// Rule evaluates one constraint. It returns "" when the value passes.
type Rule func(field schema.Field, value form.Value) string

// Validator applies an ordered rule chain to field values.
type Validator struct {
	rules []Rule
}

// New builds a validator running rules in the order given.
func New(rules ...Rule) *Validator {
	return &Validator{rules: append([]Rule(nil), rules...)}
}

var defaultValidator = New(Required, MinLength, MaxLength, EmailFormat, PhoneFormat)

// Default returns the validator with the standard rule chain:
// required, minLength, maxLength, email format, phone format.
func Default() *Validator {
	return defaultValidator
}

// ValidateField runs the default rule chain.
func ValidateField(field schema.Field, value form.Value) string {
	return defaultValidator.Field(field, value)
}

// Field returns the first failing rule's message, or "" when value is valid.
// A nil value is treated as an empty Scalar. Fields that are not required
// and hold no value are always valid.
func (v *Validator) Field(field schema.Field, value form.Value) string {
	if value == nil {
		value = form.Scalar("")
	}
	if !field.Required && value.IsZero() {
		return ""
	}
	for _, rule := range v.rules {
		if msg := rule(field, value); msg != "" {
			return msg
		}
	}
	return ""
}

// textLength counts UTF-16 code units, so characters outside the Basic
// Multilingual Plane count twice.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Required fails when a required field has no value.
func Required(field schema.Field, value form.Value) string {
	if field.Required && value.IsZero() {
		return message(field, fmt.Sprintf("%s is required.", field.Label))
	}
	return ""
}

// MinLength fails when the value's text form is shorter than minLength.
func MinLength(field schema.Field, value form.Value) string {
	if field.MinLength > 0 && textLength(value.String()) < field.MinLength {
		return message(field, fmt.Sprintf("%s must be at least %d characters long.", field.Label, field.MinLength))
	}
	return ""
}

// MaxLength fails when the value's text form is longer than maxLength.
func MaxLength(field schema.Field, value form.Value) string {
	if field.MaxLength > 0 && textLength(value.String()) > field.MaxLength {
		return message(field, fmt.Sprintf("%s must be at most %d characters long.", field.Label, field.MaxLength))
	}
	return ""
}

// EmailFormat fails when an email field's value does not look like an
// address.
func EmailFormat(field schema.Field, value form.Value) string {
	if field.Type != schema.FieldTypeEmail || value.IsZero() {
		return ""
	}
	if !emailPattern.MatchString(value.String()) {
		return message(field, "Invalid email format.")
	}
	return ""
}

// PhoneFormat fails when a tel field's value contains non-digits.
func PhoneFormat(field schema.Field, value form.Value) string {
	if field.Type != schema.FieldTypeTel || value.IsZero() {
		return ""
	}
	if !phonePattern.MatchString(value.String()) {
		return message(field, "Invalid phone number format.")
	}
	return ""
}

func message(field schema.Field, fallback string) string {
	if custom := field.CustomMessage(); custom != "" {
		return custom
	}
	return fallback
}
