package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/tavern-settings/internal/collect"
	"github.com/eugenenazirov/tavern-settings/internal/config"
	"github.com/eugenenazirov/tavern-settings/internal/inifile"
	"github.com/eugenenazirov/tavern-settings/internal/options"
)

// App owns the settings cache for one process.
type App struct {
	loader *config.Loader
	logger *zap.Logger
}

// New initializes the application. opts are forwarded to config.NewLoader.
func New(logger *zap.Logger, opts ...config.Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		loader: config.NewLoader(logger, opts...),
		logger: logger,
	}
}

// LoadStore reads persistent settings from inifile when set, otherwise from
// the first settings file found walking up from rootdir.
func LoadStore(rootdir, inifilePath string) (*inifile.Store, error) {
	if inifilePath != "" {
		store, err := inifile.Load(inifilePath)
		if err != nil {
			return nil, fmt.Errorf("load settings file: %w", err)
		}
		return store, nil
	}

	if rootdir == "" {
		rootdir = "."
	}
	store, err := inifile.Locate(rootdir)
	if err != nil {
		return nil, fmt.Errorf("locate settings file: %w", err)
	}
	return store, nil
}

// Settings resolves the global configuration for h.
func (a *App) Settings(h options.Source) (*config.Settings, error) {
	return a.loader.Load(h)
}

// Collect lists the test files below roots using the file path regex
// resolved for h.
func (a *App) Collect(ctx context.Context, h options.Source, roots []string) ([]string, error) {
	settings, err := a.loader.Load(h)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return collect.New(settings.FilePathRegex, a.logger).Collect(ctx, roots...)
}

// Close ends the run: every cached settings value is dropped.
func (a *App) Close() {
	a.loader.Reset()
}
