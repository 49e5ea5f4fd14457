package options

import (
	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/tavern-settings/internal/inifile"
)

// Flags holds the command-line values bound by Register.
type Flags struct {
	decls   []Declaration
	strings map[string]*string
	lists   map[string]*[]string
	bools   map[string]*bool
	setBy   map[string]*bool
}

// Register adds a flag for every declared option to app. List options are
// repeatable and --strict only accepts StrictChoices, so kingpin rejects bad
// values while parsing.
func Register(app *kingpin.Application, opts ...RegisterOption) *Flags {
	f := &Flags{
		decls:   Declarations(opts...),
		strings: map[string]*string{},
		lists:   map[string]*[]string{},
		bools:   map[string]*bool{},
		setBy:   map[string]*bool{},
	}

	for _, d := range f.decls {
		setByUser := new(bool)
		f.setBy[d.Name] = setByUser

		clause := app.Flag(d.Name, d.Help).IsSetByUser(setByUser)
		switch d.Kind {
		case FlagList:
			if len(d.Choices) > 0 {
				f.lists[d.Name] = clause.Enums(d.Choices...)
			} else {
				f.lists[d.Name] = clause.Strings()
			}
		case FlagBool:
			f.bools[d.Name] = clause.Bool()
		default:
			if def, ok := d.Default.(string); ok {
				clause = clause.Default(def)
			}
			f.strings[d.Name] = clause.String()
		}
	}

	return f
}

// Values returns the flags the user actually passed. Defaults shown in
// --help are not included.
func (f *Flags) Values() map[string]any {
	out := map[string]any{}
	for _, d := range f.decls {
		if !*f.setBy[d.Name] {
			continue
		}
		switch d.Kind {
		case FlagList:
			out[d.Name] = append([]string{}, *f.lists[d.Name]...)
		case FlagBool:
			out[d.Name] = *f.bools[d.Name]
		default:
			out[d.Name] = *f.strings[d.Name]
		}
	}
	return out
}

// Config snapshots the parsed flags together with store into a handle.
func (f *Flags) Config(store *inifile.Store) *Config {
	return newConfig(f.decls, store, f.Values())
}
