package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a fetch-by-id finds no record.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation matches every *ConstraintError.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ConstraintError reports a field whose value breaks a storage constraint:
// a duplicate on a unique field, or a reference to a missing record.
type ConstraintError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %s %q %s", e.Field, e.Value, e.Reason)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// ConstraintError reasons
const (
	ReasonDuplicate = "already exists"
	ReasonMissing   = "references a missing record"
)

func duplicate(field, value string) *ConstraintError {
	return &ConstraintError{Field: field, Value: value, Reason: ReasonDuplicate}
}

func missingRef(field string, id int) *ConstraintError {
	return &ConstraintError{Field: field, Value: fmt.Sprint(id), Reason: ReasonMissing}
}
