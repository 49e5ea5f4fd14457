package collect

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var tavernFiles = regexp.MustCompile(`.+\.tavern\.ya?ml$`)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("test_name: x\n"), 0o600))
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"test_a.tavern.yaml",
		"nested/test_b.tavern.yml",
		"nested/helpers.yaml",
		".hidden/test_c.tavern.yaml",
		"__pycache__/test_d.tavern.yaml",
		"notes.txt",
	)

	got, err := New(tavernFiles, zaptest.NewLogger(t)).Collect(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "nested", "test_b.tavern.yml"),
		filepath.Join(root, "test_a.tavern.yaml"),
	}, got)
}

func TestCollectMatchesFullPath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "api/test_a.yaml", "web/test_b.yaml")

	got, err := New(regexp.MustCompile(`/api/.+\.yaml$`), nil).Collect(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "api", "test_a.yaml")}, got)
}

func TestCollectMultipleRootsDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one/test_a.tavern.yaml", "two/test_b.tavern.yaml")

	file := filepath.Join(root, "one", "test_a.tavern.yaml")
	got, err := New(tavernFiles, nil).Collect(context.Background(),
		filepath.Join(root, "two"), filepath.Join(root, "one"), file)
	require.NoError(t, err)
	require.Equal(t, []string{file, filepath.Join(root, "two", "test_b.tavern.yaml")}, got)
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := New(tavernFiles, nil).Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollectCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "test_a.tavern.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(tavernFiles, nil).Collect(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCollectNoRoots(t *testing.T) {
	got, err := New(tavernFiles, nil).Collect(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}
