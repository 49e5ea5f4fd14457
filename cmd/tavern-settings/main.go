package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tavern-settings/internal/application"
	"github.com/eugenenazirov/tavern-settings/internal/logging"
	"github.com/eugenenazirov/tavern-settings/internal/options"
)

var signalNotifyContext = signal.NotifyContext

func main() {
	ctx, stop := signalNotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kingpin.FatalIfError(run(ctx, os.Args[1:], os.Stdout, os.Stderr), "tavern-settings")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	kingpinApp := kingpin.New("tavern-settings", "Resolve tavern global configuration and discover test files")
	kingpinApp.UsageWriter(stderr)
	kingpinApp.ErrorWriter(stderr)

	rootdir := kingpinApp.Flag("rootdir", "Directory to search upwards for pytest.ini, pyproject.toml, tox.ini or setup.cfg").Default(".").String()
	iniPath := kingpinApp.Flag("inifile", "Explicit settings file; disables the upward search").String()
	logLevel := kingpinApp.Flag("log-level", "Log level").Default("info").Enum(logging.Levels...)
	flags := options.Register(kingpinApp)

	showCmd := kingpinApp.Command("show", "Print the resolved global configuration as YAML").Default()
	collectCmd := kingpinApp.Command("collect", "List the test files matching the file path regex")
	collectPaths := collectCmd.Arg("paths", "Files or directories to search").Strings()

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := application.LoadStore(*rootdir, *iniPath)
	if err != nil {
		return err
	}
	logger.Debug("settings file", zap.String("path", store.Path()))

	app := application.New(logger)
	defer app.Close()
	handle := flags.Config(store)

	switch command {
	case showCmd.FullCommand():
		settings, err := app.Settings(handle)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(settings.Document); err != nil {
			return fmt.Errorf("encode global config: %w", err)
		}
		return enc.Close()
	case collectCmd.FullCommand():
		files, err := app.Collect(ctx, handle, *collectPaths)
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, err := fmt.Fprintln(stdout, f); err != nil {
				return err
			}
		}
	}
	return nil
}
