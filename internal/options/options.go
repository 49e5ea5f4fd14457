// Package options declares the runner's configuration switches, registers
// them as command-line flags and persistent (ini) keys, and resolves each
// switch from those two sources.
package options

import (
	"fmt"

	"github.com/eugenenazirov/tavern-settings/internal/inifile"
)

// Option names. The command-line flag is --<name>, the persistent key is
// IniPrefix + name.
const (
	GlobalConfig  = "global-cfg"
	HTTPBackend   = "http-backend"
	MQTTBackend   = "mqtt-backend"
	Strict        = "strict"
	NewTraceback  = "new-traceback"
	FilePathRegex = "file-path-regex"
)

// IniPrefix namespaces persistent keys inside shared files such as setup.cfg.
const IniPrefix = "tavern-"

const (
	// DefaultHTTPBackend is the http backend used when none is configured.
	DefaultHTTPBackend = "requests"
	// DefaultMQTTBackend is the mqtt backend used when none is configured.
	DefaultMQTTBackend = "paho-mqtt"
	// DefaultFilePathRegex matches *.tavern.yml and *.tavern.yaml files.
	DefaultFilePathRegex = `.+\.tavern\.ya?ml$`
)

// StrictChoices lists the response parts strict matching can be enabled for.
var StrictChoices = []string{"body", "headers", "redirect-query-params"}

// FlagKind selects the command-line shape of an option.
type FlagKind uint8

const (
	// FlagString takes a single value.
	FlagString FlagKind = iota
	// FlagList is repeatable and collects every value.
	FlagList
	// FlagBool is a switch.
	FlagBool
)

// Declaration describes one option.
type Declaration struct {
	Name    string
	Help    string
	Kind    FlagKind
	Choices []string
	// IniType selects how the persistent value is parsed.
	IniType inifile.Type
	// Default applies to both sources when non-nil: it is shown for the flag
	// and reported by the persistent source when the key is not written.
	Default any
}

type registerConfig struct {
	withDefaults bool
}

// RegisterOption configures Declarations, Register and NewConfig.
type RegisterOption func(*registerConfig)

// WithDefaults controls whether the backend defaults are declared.
func WithDefaults(enabled bool) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.withDefaults = enabled
	}
}

func newRegisterConfig(opts []RegisterOption) registerConfig {
	cfg := registerConfig{withDefaults: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Declarations returns every recognized option. Only the backends carry a
// Default; the other options get theirs from the caller at resolution time,
// so that a persistent default never hides a command-line value.
func Declarations(opts ...RegisterOption) []Declaration {
	cfg := newRegisterConfig(opts)

	backendDefault := func(name string) any {
		if !cfg.withDefaults {
			return nil
		}
		return name
	}

	return []Declaration{
		{
			Name:    GlobalConfig,
			Help:    "Global configuration file to include in every test. Repeatable.",
			Kind:    FlagList,
			IniType: inifile.LineList,
		},
		{
			Name:    HTTPBackend,
			Help:    "Which http backend to use.",
			Kind:    FlagString,
			IniType: inifile.String,
			Default: backendDefault(DefaultHTTPBackend),
		},
		{
			Name:    MQTTBackend,
			Help:    "Which mqtt backend to use.",
			Kind:    FlagString,
			IniType: inifile.String,
			Default: backendDefault(DefaultMQTTBackend),
		},
		{
			Name:    Strict,
			Help:    "Default response matching strictness. Repeatable.",
			Kind:    FlagList,
			Choices: StrictChoices,
			IniType: inifile.Args,
		},
		{
			Name:    NewTraceback,
			Help:    "Use the new traceback style.",
			Kind:    FlagBool,
			IniType: inifile.Bool,
		},
		{
			Name:    FilePathRegex,
			Help:    "Regex to search for test YAML files (default: " + DefaultFilePathRegex + ").",
			Kind:    FlagString,
			IniType: inifile.String,
		},
	}
}

// UnknownOptionError occurs when a name was never declared.
type UnknownOptionError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Name)
}
