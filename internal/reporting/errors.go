package reporting

import (
	"errors"
	"fmt"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
)

// ErrInvalidFilter is wrapped by every ValidationError.
var ErrInvalidFilter = errors.New("reporting: invalid filter")

// ErrUnknownReport is returned for names absent from the registry.
var ErrUnknownReport = errors.New("reporting: unknown report")

// ValidationError rejects a filter set. It is the only error a report raises
// on purpose and is shown to the end user in their language.
type ValidationError struct {
	Field string
	Key   string
	Args  []any
}

// Invalid builds a ValidationError for field with a catalog message id.
func Invalid(field, key string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Key: key, Args: args}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reporting: invalid %s: %s", e.Field, fmt.Sprintf(e.Key, e.Args...))
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidFilter).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidFilter
}

// Message returns the localized text.
func (e *ValidationError) Message(loc *i18n.Localizer) string {
	return loc.T(e.Key, e.Args...)
}
