package config

import (
	"strings"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

const (
	// EnvNamespace is the top-level format context key.
	EnvNamespace = "tavern"
	// EnvVarsKey holds the process environment under EnvNamespace.
	EnvVarsKey = "env_vars"
)

// EnvContext builds the format context {tavern: {env_vars: {...}}} from
// KEY=VALUE pairs.
func EnvContext(environ []string) document.Value {
	vars := make(map[string]string, len(environ))
	for _, pair := range environ {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return document.NewMap().Set(EnvNamespace, document.NewMap().Set(EnvVarsKey, document.FromStringMap(vars)))
}
