// Package inifile reads persistent runner settings from the project-level
// files pytest understands: pytest.ini, pyproject.toml, tox.ini and setup.cfg.
package inifile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
)

// Type selects how a raw persistent value is interpreted.
type Type uint8

const (
	// String returns the value verbatim.
	String Type = iota
	// LineList splits the value into its non-blank, trimmed lines.
	LineList
	// Args splits the value on whitespace.
	Args
	// Bool parses the value as a boolean.
	Bool
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case LineList:
		return "linelist"
	case Args:
		return "args"
	case Bool:
		return "bool"
	default:
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
}

// candidates are probed in this order in every directory.
var candidates = []string{"pytest.ini", "pyproject.toml", "tox.ini", "setup.cfg"}

// Store holds the raw settings read from a single file. A nil or empty Store
// reports every key as absent.
type Store struct {
	path   string
	values map[string]any
}

// Empty returns a store without a backing file.
func Empty() *Store {
	return &Store{values: map[string]any{}}
}

// FromMap builds a store from already parsed values. Supported value types
// are string, []string and bool.
func FromMap(path string, values map[string]any) *Store {
	s := &Store{path: path, values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Path returns the backing file, or "" for an empty store.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Len reports the number of keys in the store.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// TypeError occurs when a stored value cannot be read as the requested Type.
type TypeError struct {
	Path  string
	Key   string
	Want  Type
	Cause error
}

// Error implements the error interface.
func (e TypeError) Error() string {
	msg := fmt.Sprintf("%s: %s is not a valid %s", e.Path, e.Key, e.Want)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TypeError) Unwrap() error {
	return e.Cause
}

// Lookup returns the value stored under name converted to typ. The hyphenated
// name is tried first, then its underscore spelling.
func (s *Store) Lookup(name string, typ Type) (any, bool, error) {
	if s == nil {
		return nil, false, nil
	}

	key := name
	raw, ok := s.values[key]
	if !ok {
		key = strings.ReplaceAll(name, "-", "_")
		raw, ok = s.values[key]
	}
	if !ok {
		return nil, false, nil
	}

	v, err := convert(raw, typ)
	if err != nil {
		return nil, true, TypeError{Path: s.path, Key: key, Want: typ, Cause: err}
	}
	return v, true, nil
}

var errWrongShape = errors.New("unexpected value shape")

func convert(raw any, typ Type) (any, error) {
	switch v := raw.(type) {
	case *ini.Key:
		switch typ {
		case LineList:
			return splitLines(v.Value()), nil
		case Args:
			return splitArgs(v.Value()), nil
		case Bool:
			return v.Bool()
		default:
			return v.String(), nil
		}
	case string:
		switch typ {
		case LineList:
			return splitLines(v), nil
		case Args:
			return splitArgs(v), nil
		case Bool:
			return strconv.ParseBool(strings.TrimSpace(v))
		default:
			return v, nil
		}
	case []string:
		if typ != LineList && typ != Args {
			return nil, errWrongShape
		}
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case bool:
		switch typ {
		case Bool:
			return v, nil
		case String:
			return strconv.FormatBool(v), nil
		}
		return nil, errWrongShape
	default:
		return nil, errWrongShape
	}
}

func splitArgs(raw string) []string {
	out := strings.Fields(raw)
	if out == nil {
		out = []string{}
	}
	return out
}

func splitLines(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Load reads the settings in path. A file without a matching section yields
// an empty store bound to path.
func Load(path string) (*Store, error) {
	store, _, err := load(path)
	return store, err
}

// Locate walks from dir towards the filesystem root and loads the first file
// that carries runner settings. pytest.ini always matches; the other
// candidates only match when they contain the runner section. When nothing
// matches an empty store is returned.
func Locate(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for d := abs; ; {
		for _, name := range candidates {
			p := filepath.Join(d, name)
			if info, err := os.Stat(p); err != nil || info.IsDir() {
				continue
			}
			store, found, err := load(p)
			if err != nil {
				return nil, err
			}
			if found || name == "pytest.ini" {
				return store, nil
			}
		}

		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	return Empty(), nil
}

func load(path string) (*Store, bool, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return loadTOML(path)
	}
	return loadINI(path)
}

func iniSections(path string) []string {
	if filepath.Base(path) == "setup.cfg" {
		return []string{"tool:pytest"}
	}
	return []string{"pytest", "tool:pytest"}
}

func loadINI(path string) (*Store, bool, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
	}, path)
	if err != nil {
		return nil, false, fmt.Errorf("parse ini %s: %w", path, err)
	}

	store := &Store{path: path, values: map[string]any{}}
	for _, name := range iniSections(path) {
		sec, err := f.GetSection(name)
		if err != nil {
			continue
		}
		for _, key := range sec.Keys() {
			store.values[key.Name()] = key
		}
		return store, true, nil
	}
	return store, false, nil
}

func loadTOML(path string) (*Store, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("parse toml %s: %w", path, err)
	}

	store := &Store{path: path, values: map[string]any{}}
	tool, _ := doc["tool"].(map[string]any)
	pytest, _ := tool["pytest"].(map[string]any)
	options, ok := pytest["ini_options"].(map[string]any)
	if !ok {
		return store, false, nil
	}

	for k, v := range options {
		store.values[k] = normalizeTOML(v)
	}
	return store, true, nil
}

func normalizeTOML(v any) any {
	switch t := v.(type) {
	case string, bool:
		return t
	case []any:
		out := make([]string, len(t))
		for i, item := range t {
			out[i] = fmt.Sprint(item)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}
