package task

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Field limits, counted in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Violation messages, in the order Validate reports them.
const (
	MsgTitleRequired      = "Title is required"
	MsgTitleTooLong       = "Title must be less than 100 characters"
	MsgDescriptionTooLong = "Description must be less than 500 characters"
	MsgInvalidPriority    = "Priority must be low, medium, or high"
	MsgInvalidStatus      = "Status must be to-do, in-progress, or done"
)

// ErrInvalid is the sentinel matched by every *ValidationError.
var ErrInvalid = errors.New("invalid task")

// ValidationError reports the rules a candidate record violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid task: " + strings.Join(e.Violations, "; ")
}

// Unwrap returns ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Validate checks a candidate record and returns the violated rules.
// Every rule is evaluated. An empty result means the candidate is
// acceptable.
func Validate(f Fields) []string {
	violations := make([]string, 0)

	if f.Title == nil || strings.TrimSpace(*f.Title) == "" {
		violations = append(violations, MsgTitleRequired)
	}
	if f.Title != nil && utf8.RuneCountInString(*f.Title) > MaxTitleLength {
		violations = append(violations, MsgTitleTooLong)
	}
	if f.Description != nil && utf8.RuneCountInString(*f.Description) > MaxDescriptionLength {
		violations = append(violations, MsgDescriptionTooLong)
	}
	if f.Priority != nil && !f.Priority.Valid() {
		violations = append(violations, MsgInvalidPriority)
	}
	if f.Status != nil && !f.Status.Valid() {
		violations = append(violations, MsgInvalidStatus)
	}

	return violations
}

// Check runs Validate and wraps any violations in a *ValidationError.
func Check(f Fields) error {
	if v := Validate(f); len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

// ValidateTask validates a stored record, including the fields a
// candidate does not carry.
func ValidateTask(t Task) []string {
	violations := Validate(t.Fields())
	if t.ID == "" {
		violations = append(violations, "ID is required")
	}
	if t.CreatedAt.IsZero() {
		violations = append(violations, "Created time is required")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		violations = append(violations, "Updated time must not be before created time")
	}
	return violations
}
