package launchers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var past = time.Now().Add(-time.Hour).Truncate(time.Second)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func testProject(t *testing.T, scripts ...string) Options {
	t.Helper()

	root := t.TempDir()
	if len(scripts) > 0 {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0755))
	}

	for _, name := range scripts {
		writeScript(t, root, name, past)
	}

	opts := DefaultOptions()
	opts.Root = root
	return opts
}

func writeScript(t *testing.T, root, name string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(root, "scripts", name)
	require.NoError(t, os.WriteFile(path, []byte("print('hello')\n"), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func names(list []Launcher) []string {
	result := make([]string, 0, len(list))
	for _, item := range list {
		result = append(result, item.Name)
	}
	return result
}
