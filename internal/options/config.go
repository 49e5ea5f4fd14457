package options

import (
	"github.com/google/uuid"

	"github.com/eugenenazirov/tavern-settings/internal/inifile"
)

// Config is the immutable handle for one run: the persistent settings
// store plus the command-line values the user supplied. Each Config has a
// unique Key used to cache what is derived from it.
type Config struct {
	key   string
	decls map[string]Declaration
	store *inifile.Store
	cli   map[string]any
}

// NewConfig builds a handle from a persistent store and explicit command-line
// values keyed by option name. Values must be string, []string or bool.
func NewConfig(store *inifile.Store, cli map[string]any, opts ...RegisterOption) *Config {
	return newConfig(Declarations(opts...), store, cli)
}

func newConfig(decls []Declaration, store *inifile.Store, cli map[string]any) *Config {
	c := &Config{
		key:   uuid.NewString(),
		decls: make(map[string]Declaration, len(decls)),
		store: store,
		cli:   make(map[string]any, len(cli)),
	}
	for _, d := range decls {
		c.decls[d.Name] = d
	}
	for k, v := range cli {
		if list, ok := v.([]string); ok {
			v = append([]string{}, list...)
		}
		c.cli[k] = v
	}
	if c.store == nil {
		c.store = inifile.Empty()
	}
	return c
}

// Key identifies this handle.
func (c *Config) Key() string {
	return c.key
}

// Store returns the persistent settings store.
func (c *Config) Store() *inifile.Store {
	return c.store
}

// Ini returns the persistent value of the named option, falling back to the
// declared Default when the key is not written.
func (c *Config) Ini(name string) (any, bool, error) {
	d, ok := c.decls[name]
	if !ok {
		return nil, false, UnknownOptionError{Name: name}
	}

	v, ok, err := c.store.Lookup(IniPrefix+name, d.IniType)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return v, true, nil
	}
	if d.Default != nil {
		return d.Default, true, nil
	}
	return nil, false, nil
}

// Option returns the command-line value of the named option.
func (c *Config) Option(name string) (any, bool) {
	v, ok := c.cli[name]
	if list, isList := v.([]string); isList {
		v = append([]string{}, list...)
	}
	return v, ok
}
