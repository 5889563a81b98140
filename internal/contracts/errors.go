package contracts

import (
	"errors"
	"fmt"
)

// ErrValidation matches every ValidationError through errors.Is
var ErrValidation = errors.New("validation error")

// ValidationError is a non-recoverable input error (missing column, bad criteria,
// stage used out of order). It is surfaced to the caller immediately.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrValidation as a match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrNotCleaned is returned when the cleaning report is requested before Clean ran
var ErrNotCleaned = &ValidationError{
	Field:   "cleaning_report",
	Message: "clean must run before the report is requested",
}

// MissingColumn builds the validation error for an absent required column
func MissingColumn(name string) error {
	return &ValidationError{Field: name, Message: "required column missing"}
}
