package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/tavern-settings/internal/config"
	"github.com/eugenenazirov/tavern-settings/internal/document"
	"github.com/eugenenazirov/tavern-settings/internal/inifile"
	"github.com/eugenenazirov/tavern-settings/internal/options"
)

type countingFiles struct {
	calls int
}

func (f *countingFiles) Load([]string) (document.Value, error) {
	f.calls++
	return document.NewMap(), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSettingsCachedUntilClose(t *testing.T) {
	files := &countingFiles{}
	app := New(zaptest.NewLogger(t), config.WithFileLoader(files))
	h := options.NewConfig(inifile.Empty(), nil)

	first, err := app.Settings(h)
	if err != nil {
		t.Fatalf("Settings returned error: %v", err)
	}
	second, err := app.Settings(h)
	if err != nil {
		t.Fatalf("Settings returned error: %v", err)
	}
	if first != second || files.calls != 1 {
		t.Fatalf("expected one load shared by both calls, got %d loads", files.calls)
	}

	app.Close()
	if _, err := app.Settings(h); err != nil {
		t.Fatalf("Settings returned error: %v", err)
	}
	if files.calls != 2 {
		t.Fatalf("expected reload after Close, got %d loads", files.calls)
	}
}

func TestCollectUsesResolvedRegex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_a.tavern.yaml", "")
	writeFile(t, dir, "test_b.api.yaml", "")

	app := New(zaptest.NewLogger(t), config.WithFileLoader(&countingFiles{}))

	got, err := app.Collect(context.Background(), options.NewConfig(nil, nil), []string{dir})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "test_a.tavern.yaml" {
		t.Fatalf("unexpected files with default regex: %v", got)
	}

	h := options.NewConfig(inifile.FromMap("pytest.ini", map[string]any{"tavern-file-path-regex": `\.api\.yaml$`}), nil)
	got, err = app.Collect(context.Background(), h, []string{dir})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "test_b.api.yaml" {
		t.Fatalf("unexpected files with persistent regex: %v", got)
	}
}

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tox.ini", "[tox]\nenvlist = py\n")
	writeFile(t, dir, "setup.cfg", "[tool:pytest]\ntavern-strict = body\n")
	nested := filepath.Join(dir, "tests", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	store, err := LoadStore(nested, "")
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}
	if store.Path() != filepath.Join(dir, "setup.cfg") {
		t.Fatalf("expected setup.cfg to be located, got %q", store.Path())
	}

	explicit := writeFile(t, dir, "custom.ini", "[pytest]\ntavern-http-backend = custom\n")
	store, err = LoadStore(nested, explicit)
	if err != nil {
		t.Fatalf("LoadStore returned error: %v", err)
	}
	v, ok, err := store.Lookup("tavern-http-backend", inifile.String)
	if err != nil || !ok || v != "custom" {
		t.Fatalf("expected explicit settings file to be used, got %v %v %v", v, ok, err)
	}
}

func TestLoadStoreMissingExplicitFile(t *testing.T) {
	if _, err := LoadStore("", filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Fatalf("expected error for missing settings file")
	}
}
