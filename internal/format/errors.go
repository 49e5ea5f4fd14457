package format

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFormat classifies placeholders that reference unknown variables.
	ErrMissingFormat = errors.New("missing format variable")
	// ErrSyntax classifies malformed placeholders.
	ErrSyntax = errors.New("invalid format string")
)

// MissingFormatError occurs when a placeholder names a variable that is not
// available in the format context.
type MissingFormatError struct {
	Key   string
	Input string
}

// Error implements the error interface.
func (e MissingFormatError) Error() string {
	return fmt.Sprintf("tried to use variable %q in %q but it was not in the available variables", e.Key, e.Input)
}

// Is reports whether target is ErrMissingFormat.
func (e MissingFormatError) Is(target error) bool {
	return target == ErrMissingFormat
}

// SyntaxError occurs when a string contains unbalanced braces or an
// unsupported placeholder.
type SyntaxError struct {
	Input  string
	Offset int
	Reason string
}

// Error implements the error interface.
func (e SyntaxError) Error() string {
	return fmt.Sprintf("invalid format string %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Is reports whether target is ErrSyntax.
func (e SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// NonScalarError occurs when a list or map is interpolated into surrounding text.
type NonScalarError struct {
	Key   string
	Input string
}

// Error implements the error interface.
func (e NonScalarError) Error() string {
	return fmt.Sprintf("variable %q used in %q is not a scalar and cannot be embedded in text", e.Key, e.Input)
}
