package options

import "fmt"

// Source exposes both tiers of option values for one run. *Config is the
// production implementation.
type Source interface {
	Key() string
	Ini(name string) (any, bool, error)
	Option(name string) (any, bool)
}

// InvalidSettingsError occurs when a stored option value does not have the
// type its caller expects.
type InvalidSettingsError struct {
	Name   string
	Source string
	Want   string
	Got    any
}

// Error implements the error interface.
func (e InvalidSettingsError) Error() string {
	return fmt.Sprintf("%s option %q: expected %s, got %T", e.Source, e.Name, e.Want, e.Got)
}

// Persistent reads the persistent tier of the named option.
func Persistent[T any](src Source, name string) (Value[T], error) {
	raw, ok, err := src.Ini(name)
	if err != nil || !ok {
		return Value[T]{}, err
	}
	return typed[T](name, "persistent", raw)
}

// CommandLine reads the command-line tier of the named option.
func CommandLine[T any](src Source, name string) (Value[T], error) {
	raw, ok := src.Option(name)
	if !ok {
		return Value[T]{}, nil
	}
	return typed[T](name, "command-line", raw)
}

// Get resolves the named option with Resolve.
func Get[T any](src Source, name string, def T) (T, error) {
	persistent, err := Persistent[T](src, name)
	if err != nil {
		return def, err
	}
	cli, err := CommandLine[T](src, name)
	if err != nil {
		return def, err
	}
	return Resolve(persistent, cli, def), nil
}

func typed[T any](name, source string, raw any) (Value[T], error) {
	v, ok := raw.(T)
	if !ok {
		var zero T
		return Value[T]{}, InvalidSettingsError{
			Name:   name,
			Source: source,
			Want:   fmt.Sprintf("%T", zero),
			Got:    raw,
		}
	}
	return ValueOf(v), nil
}
