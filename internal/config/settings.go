package config

import (
	"regexp"
	"slices"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

// Document keys written by the loader.
const (
	KeyVariables = "variables"
	KeyStrict    = "strict"
	KeyBackends  = "backends"
)

// Settings is the resolved global configuration of one run. A Settings value
// is shared by every caller holding the same handle and must be treated as
// read-only.
type Settings struct {
	// Document is the merged global configuration with the formatted
	// variables, strict and backends keys written in.
	Document document.Value
	// Variables is the formatted variables mapping; empty when the files
	// declare none.
	Variables     document.Value
	Strict        []string
	Backends      map[string]string
	NewTraceback  bool
	FilePathRegex *regexp.Regexp
}

// Backend returns the backend selected for subsystem ("http", "mqtt").
func (s *Settings) Backend(subsystem string) string {
	return s.Backends[subsystem]
}

// StrictFor reports whether strict matching is enabled for part.
func (s *Settings) StrictFor(part string) bool {
	return slices.Contains(s.Strict, part)
}

// Decode copies the document entry under key into out. An empty key decodes
// the whole document.
func (s *Settings) Decode(key string, out any) error {
	v := s.Document
	if key != "" {
		var ok bool
		if v, ok = s.Document.Get(key); !ok {
			return MissingKeyError{Key: key}
		}
	}
	return document.Decode(v, out)
}
