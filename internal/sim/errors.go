package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters marks malformed or infeasible run parameters.
	ErrInvalidParameters = errors.New("sim: invalid parameters")

	// ErrResourceLimit marks parameters that would need pathologically large
	// arrays.
	ErrResourceLimit = errors.New("sim: resource limit exceeded")

	// ErrNoChemistry is returned when chemistry output is requested from a
	// run that did not track it.
	ErrNoChemistry = errors.New("sim: chemistry was not tracked")
)

// ValidationError identifies the field, and the source when there is one,
// that failed validation.
type ValidationError struct {
	Field  string
	Source int // -1 when the field is not per-source
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Source >= 0 {
		return fmt.Sprintf("invalid parameters: sources[%d].%s: %s", e.Source, e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid parameters: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameters
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Source: -1, Msg: fmt.Sprintf(format, args...)}
}

func invalidSource(i int, field, format string, args ...any) error {
	return &ValidationError{Field: field, Source: i, Msg: fmt.Sprintf(format, args...)}
}

// ResourceError reports which array would exceed its limit.
type ResourceError struct {
	Resource string
	Required float64
	Limit    int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource limit: %s would need %.0f, limit is %d", e.Resource, e.Required, e.Limit)
}

func (e *ResourceError) Unwrap() error {
	return ErrResourceLimit
}
