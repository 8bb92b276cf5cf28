package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrAuthentication is returned for missing, invalid or stale credentials.
// It deliberately carries no detail about which part was wrong.
var ErrAuthentication = errors.New("authentication failed")

// ValidationError reports client input problems keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{Fields: map[string][]string{}}
	v.Add(field, message)
	return v
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// fromRules converts ozzo-validation field errors into a ValidationError.
// Errors that are not rule failures are returned unchanged.
func fromRules(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{Fields: map[string][]string{}}
	for field, fieldErr := range fieldErrs {
		if fieldErr == nil {
			continue
		}
		verr.Add(field, fieldErr.Error())
	}
	return verr
}
