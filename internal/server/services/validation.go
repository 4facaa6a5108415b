package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	minPasswordLength    = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

type taskFields struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate checks only the fields that are present.
func (f taskFields) Validate() error {
	var rules []*validation.FieldRules
	if f.Title != nil {
		rules = append(rules, validation.Field(&f.Title, validation.Required, validation.RuneLength(1, maxTitleLength)))
	}
	if f.Description != nil {
		rules = append(rules, validation.Field(&f.Description, validation.RuneLength(0, maxDescriptionLength)))
	}
	return toValidationError(validation.ValidateStruct(&f, rules...))
}

type signupFields struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (f signupFields) Validate() error {
	return toValidationError(validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required, validation.RuneLength(minPasswordLength, 0), validation.Length(0, maxPasswordBytes)),
		validation.Field(&f.Name, validation.RuneLength(0, 100)),
	))
}

// toValidationError converts ozzo field errors into a common.ValidationError.
// Other errors pass through unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &common.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for name, fe := range fieldErrs {
		ve.Fields[name] = fe.Error()
	}
	return ve
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
