// Package validate holds the field-level validation rules shared by the
// patient and enrollment domains. Every validator is a pure function returning
// a typed *FieldError, so entity entry points can compose them and hand the
// API layer a structured per-field failure list instead of a single error
// string.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Reason classifies why a field was rejected.
type Reason string

const (
	InvalidFormat      Reason = "invalid_format"
	InvalidRange       Reason = "invalid_range"
	InvalidCombination Reason = "invalid_combination"
	MissingField       Reason = "missing_field"
	UniquenessConflict Reason = "uniqueness_conflict"
)

// FieldError is a single validation failure attributed to one field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every failure found during an entity validation pass.
type Errors []*FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Append adds a failure if fe is non-nil and returns the updated list.
func (e Errors) Append(fe *FieldError) Errors {
	if fe != nil {
		return append(e, fe)
	}
	return e
}

// OrNil returns the list as an error, or nil when no failures were recorded.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// HasConflict reports whether any failure in the list is a uniqueness
// conflict, which the API layer surfaces as 409 instead of 400.
func (e Errors) HasConflict() bool {
	for _, fe := range e {
		if fe.Reason == UniquenessConflict {
			return true
		}
	}
	return false
}

var (
	nationalIDPattern = regexp.MustCompile(`^\d{16}$`)
	phonePattern      = regexp.MustCompile(`^\+250\d{9}$`)
)

// NationalID checks the Rwandan national identifier: exactly 16 ASCII digits.
func NationalID(field, value string) *FieldError {
	if !nationalIDPattern.MatchString(value) {
		return &FieldError{
			Field:   field,
			Reason:  InvalidFormat,
			Message: "national ID must be exactly 16 digits",
		}
	}
	return nil
}

// Phone checks the regional phone format: literal +250 followed by exactly
// 9 digits. The same rule applies to patient, emergency contact, and hospital
// numbers.
func Phone(field, value string) *FieldError {
	if !phonePattern.MatchString(value) {
		return &FieldError{
			Field:   field,
			Reason:  InvalidFormat,
			Message: "phone number must be in format: +250XXXXXXXXX",
		}
	}
	return nil
}

// OptionalPhone applies Phone only when a value is supplied.
func OptionalPhone(field, value string) *FieldError {
	if value == "" {
		return nil
	}
	return Phone(field, value)
}

// Coordinates rejects a GPS pair where exactly one of latitude/longitude is
// set. Both present and both absent are valid.
func Coordinates(latitude, longitude *float64) *FieldError {
	if (latitude != nil) == (longitude != nil) {
		return nil
	}
	return &FieldError{
		Field:   "latitude",
		Reason:  InvalidCombination,
		Message: "both latitude and longitude must be provided together",
	}
}

// DateOrder rejects an end date strictly before its start date. Equal dates
// pass (a same-day discharge is a zero-day stay).
func DateOrder(field string, start, end time.Time) *FieldError {
	if end.Before(start) {
		return &FieldError{
			Field:   field,
			Reason:  InvalidRange,
			Message: "discharge date cannot be before admission date",
		}
	}
	return nil
}

// RequiredWhen rejects an empty value whenever the guarding flag is set. Used
// for the follow-up timeframe, which is mandatory only when follow-up is
// required.
func RequiredWhen(field string, flag bool, value string) *FieldError {
	if flag && strings.TrimSpace(value) == "" {
		return &FieldError{
			Field:   field,
			Reason:  MissingField,
			Message: field + " is required when follow-up is required",
		}
	}
	return nil
}

// Required rejects an empty value unconditionally.
func Required(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{
			Field:   field,
			Reason:  MissingField,
			Message: field + " is required",
		}
	}
	return nil
}

// OneOf rejects a value outside the allowed enum set. Empty values are
// rejected too; callers that allow blanks should guard with value != "".
func OneOf(field, value string, allowed ...string) *FieldError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &FieldError{
		Field:   field,
		Reason:  InvalidFormat,
		Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
	}
}

// Conflict builds the failure used when the store reports a duplicate value
// for a uniquely-indexed column, so storage races surface through the same
// channel as local validation.
func Conflict(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  UniquenessConflict,
		Message: field + " already exists",
	}
}
