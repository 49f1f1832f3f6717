// Package apperr holds the error kinds shared by every domain package. Domain
// sentinels wrap one of these so the HTTP layer can map them uniformly.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)

// FieldIssue describes one rejected input field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError carries field-level details and matches ErrValidation.
type ValidationError struct {
	Message string
	Issues  []FieldIssue
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a ValidationError. An empty message is derived from the
// first issue.
func Validation(message string, issues ...FieldIssue) error {
	if message == "" && len(issues) > 0 {
		message = issues[0].Field + " " + issues[0].Issue
	}
	if message == "" {
		message = ErrValidation.Error()
	}
	return &ValidationError{Message: message, Issues: issues}
}

// Required returns a ValidationError naming every missing field.
func Required(fields ...string) error {
	issues := make([]FieldIssue, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, FieldIssue{Field: f, Issue: "required"})
	}
	return Validation("Missing required fields: "+strings.Join(fields, ", "), issues...)
}

// UnknownFields rejects keys outside an allow-list.
func UnknownFields(keys []string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	issues := make([]FieldIssue, 0, len(sorted))
	for _, k := range sorted {
		issues = append(issues, FieldIssue{Field: k, Issue: "unknown field"})
	}
	return Validation("Unknown fields: "+strings.Join(sorted, ", "), issues...)
}

// Issues extracts field details from err, if any.
func Issues(err error) []FieldIssue {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues
	}
	return nil
}

// Wrap attaches a kind to a domain message: Wrap(ErrNotFound, "job") reads
// "job not found" and matches ErrNotFound.
func Wrap(kind error, subject string) error {
	return fmt.Errorf("%s %w", subject, kind)
}
