package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tavern-settings/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunShow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "variables:\n  host: \"{tavern.env_vars.API_HOST}\"\n")
	writeFile(t, dir, "pytest.ini", "[pytest]\ntavern-global-cfg =\n    "+filepath.Join(dir, "common.yaml")+"\ntavern-strict = body\n")
	t.Setenv("API_HOST", "api.example.com")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--rootdir", dir, "--http-backend", "custom"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var got struct {
		Variables map[string]string `yaml:"variables"`
		Strict    []string          `yaml:"strict"`
		Backends  map[string]string `yaml:"backends"`
	}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &got))
	require.Equal(t, "api.example.com", got.Variables["host"])
	require.Equal(t, []string{"body"}, got.Strict)
	require.Equal(t, map[string]string{"http": "custom", "mqtt": "paho-mqtt"}, got.Backends)
}

func TestRunShowInvalidStrict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pytest.ini", "[pytest]\ntavern-strict = body cookies\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"show", "--rootdir", dir}, &stdout, &stderr)
	require.ErrorIs(t, err, config.ErrInvalidConfiguration)
	require.Empty(t, stdout.String())
}

func TestRunRejectsUnknownStrictFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--strict", "cookies"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestRunCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pytest.ini", "[pytest]\n")
	writeFile(t, dir, "tests/test_a.tavern.yaml", "test_name: a\n")
	writeFile(t, dir, "tests/test_b.yaml", "test_name: b\n")
	writeFile(t, dir, "tests/test_c.api.yaml", "test_name: c\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"collect", "--rootdir", dir, filepath.Join(dir, "tests")}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	require.Equal(t, []string{filepath.Join(dir, "tests", "test_a.tavern.yaml")}, strings.Fields(stdout.String()))

	stdout.Reset()
	err = run(context.Background(), []string{"collect", "--rootdir", dir, "--file-path-regex", `\.api\.yaml$`, filepath.Join(dir, "tests")}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	require.Equal(t, []string{filepath.Join(dir, "tests", "test_c.api.yaml")}, strings.Fields(stdout.String()))
}

func TestRunRejectsUnknownLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--log-level", "loud"}, &stdout, &stderr)
	require.Error(t, err)
}
