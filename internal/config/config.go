package config

import (
	"os"
	"regexp"
	"slices"

	"go.uber.org/zap"

	"github.com/eugenenazirov/tavern-settings/internal/document"
	"github.com/eugenenazirov/tavern-settings/internal/format"
	"github.com/eugenenazirov/tavern-settings/internal/loader"
	"github.com/eugenenazirov/tavern-settings/internal/options"
	"github.com/eugenenazirov/tavern-settings/internal/storage"
)

// Backend subsystems, resolved from the <name>-backend options.
var backendSubsystems = []string{"http", "mqtt"}

// FileLoader loads the global configuration files at paths, in order, and
// merges them into one document.
type FileLoader interface {
	Load(paths []string) (document.Value, error)
}

// Formatter substitutes placeholders in v using ctx.
type Formatter interface {
	Format(v, ctx document.Value) (document.Value, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithFileLoader replaces the YAML file loader.
func WithFileLoader(files FileLoader) Option {
	return func(l *Loader) {
		l.files = files
	}
}

// WithFormatter replaces the placeholder formatter.
func WithFormatter(f Formatter) Option {
	return func(l *Loader) {
		l.formatter = f
	}
}

// WithEnviron replaces os.Environ as the source of the format context.
func WithEnviron(environ func() []string) Option {
	return func(l *Loader) {
		l.environ = environ
	}
}

// WithCache shares an existing cache between loaders.
func WithCache(cache *storage.Memo[*Settings]) Option {
	return func(l *Loader) {
		l.cache = cache
	}
}

// Loader resolves Settings for run handles and caches them by handle key.
type Loader struct {
	files     FileLoader
	formatter Formatter
	environ   func() []string
	logger    *zap.Logger
	cache     *storage.Memo[*Settings]
}

// NewLoader returns a Loader backed by YAML files, the placeholder formatter
// and the process environment unless overridden by opts.
func NewLoader(logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		files:     loader.New(logger),
		formatter: format.Formatter{},
		environ:   os.Environ,
		logger:    logger,
		cache:     storage.NewMemo[*Settings](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the settings for src, computing them on the first call for
// src.Key() only. Errors from the file loader and the formatter are returned
// unchanged and are not cached.
func (l *Loader) Load(src options.Source) (*Settings, error) {
	return l.cache.Get(src.Key(), func() (*Settings, error) {
		return l.load(src)
	})
}

// Invalidate drops the settings cached for src.
func (l *Loader) Invalidate(src options.Source) {
	l.cache.Invalidate(src.Key())
}

// Reset drops every cached settings value. Call it at run boundaries.
func (l *Loader) Reset() {
	l.cache.Reset()
}

func (l *Loader) load(src options.Source) (*Settings, error) {
	paths, err := globalConfigPaths(src)
	if err != nil {
		return nil, err
	}

	doc, err := l.files.Load(paths)
	if err != nil {
		return nil, err
	}

	settings := &Settings{Variables: document.NewMap()}

	if vars, ok := doc.Get(KeyVariables); ok {
		formatted, err := l.formatter.Format(vars, EnvContext(l.environ()))
		if err != nil {
			return nil, err
		}
		doc = doc.Set(KeyVariables, formatted)
		settings.Variables = formatted
	} else {
		l.logger.Debug("nothing to format in global config files")
	}

	if settings.Strict, err = resolveStrict(src); err != nil {
		return nil, err
	}

	settings.Backends = make(map[string]string, len(backendSubsystems))
	for _, subsystem := range backendSubsystems {
		name := subsystem + "-backend"
		persistent, err := options.Persistent[string](src, name)
		if err != nil {
			return nil, err
		}
		cli, err := options.CommandLine[string](src, name)
		if err != nil {
			return nil, err
		}
		settings.Backends[subsystem] = ResolveBackend(persistent, cli)
	}

	if settings.NewTraceback, err = options.Get(src, options.NewTraceback, false); err != nil {
		return nil, err
	}

	if settings.FilePathRegex, err = resolveFilePathRegex(src); err != nil {
		return nil, err
	}

	doc = doc.
		Set(KeyStrict, document.Strings(settings.Strict)).
		Set(KeyBackends, document.FromStringMap(settings.Backends))
	settings.Document = doc

	l.logger.Debug("global config", zap.Any("config", doc.Interface()))
	return settings, nil
}

// globalConfigPaths lists the persistent paths followed by the command-line
// ones. Both tiers contribute.
func globalConfigPaths(src options.Source) ([]string, error) {
	persistent, err := options.Persistent[[]string](src, options.GlobalConfig)
	if err != nil {
		return nil, err
	}
	cli, err := options.CommandLine[[]string](src, options.GlobalConfig)
	if err != nil {
		return nil, err
	}

	iniPaths, _ := persistent.Value()
	cliPaths, _ := cli.Value()
	paths := make([]string, 0, len(iniPaths)+len(cliPaths))
	paths = append(paths, iniPaths...)
	return append(paths, cliPaths...), nil
}

func resolveStrict(src options.Source) ([]string, error) {
	strict, err := options.Get(src, options.Strict, []string{})
	if err != nil {
		return nil, err
	}

	var invalid []string
	for _, s := range strict {
		if !slices.Contains(options.StrictChoices, s) {
			invalid = append(invalid, s)
		}
	}
	if len(invalid) > 0 {
		return nil, InvalidConfigurationError{
			Option:  options.Strict,
			Allowed: slices.Clone(options.StrictChoices),
			Got:     invalid,
		}
	}
	return strict, nil
}

func resolveFilePathRegex(src options.Source) (*regexp.Regexp, error) {
	pattern, err := options.Get(src, options.FilePathRegex, options.DefaultFilePathRegex)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, InvalidConfigurationError{Option: options.FilePathRegex, Cause: err}
	}
	return re, nil
}

// ResolveBackend uses the persistent value as the baseline and lets a
// non-empty command-line value that differs from it win.
func ResolveBackend(persistent, cli options.Value[string]) string {
	inUse, _ := persistent.Value()
	if v, ok := cli.Value(); ok && v != "" && v != inUse {
		inUse = v
	}
	return inUse
}
