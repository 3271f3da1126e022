package screening

import "fmt"

// InputError reports a profile or job that failed validation.
type InputError struct {
	Field string
	Cause error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Cause)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
