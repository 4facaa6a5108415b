package common

import (
	"sort"
	"strings"
)

// ValidationError reports field constraint violations. Fields maps a field
// name to the rule it broke, e.g. "title" -> "cannot be blank".
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrorValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrorValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
