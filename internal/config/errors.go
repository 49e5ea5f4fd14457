package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration classifies settings that fail validation.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// InvalidConfigurationError reports an option whose resolved value is not
// acceptable. Allowed and Got are set for enumerated options.
type InvalidConfigurationError struct {
	Option  string
	Allowed []string
	Got     []string
	Cause   error
}

// Error implements the error interface.
func (e InvalidConfigurationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid values for '%s' given - expected one of %v, got %v", e.Option, e.Allowed, e.Got)
	}
	return fmt.Sprintf("invalid value for '%s': %v", e.Option, e.Cause)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidConfigurationError) Unwrap() error {
	return e.Cause
}

// MissingKeyError occurs when Settings.Decode is asked for a key the document
// does not contain.
type MissingKeyError struct {
	Key string
}

// Error implements the error interface.
func (e MissingKeyError) Error() string {
	return fmt.Sprintf("global config has no %q key", e.Key)
}
