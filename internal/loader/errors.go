package loader

import (
	"fmt"
	"strings"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

// UnexpectedDocumentsError occurs when a global config file holds more than
// one YAML document.
type UnexpectedDocumentsError struct {
	Path string
}

// Error implements the error interface.
func (e UnexpectedDocumentsError) Error() string {
	return fmt.Sprintf("%s: expected a single YAML document", e.Path)
}

// BadSchemaError occurs when a global config file is not a mapping.
type BadSchemaError struct {
	Path string
	Kind document.Kind
}

// Error implements the error interface.
func (e BadSchemaError) Error() string {
	return fmt.Sprintf("%s: global config must be a mapping, got %s", e.Path, e.Kind)
}

// IncludeCycleError occurs when !include directives form a loop.
type IncludeCycleError struct {
	Chain []string
}

// Error implements the error interface.
func (e IncludeCycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}
