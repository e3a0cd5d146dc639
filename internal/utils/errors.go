package utils

import (
	"errors"
	"fmt"
)

// ValidationError reports a required field that was missing or held a value
// outside its allowed set. It is shown to the visitor and never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func Validation(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
