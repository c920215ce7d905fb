package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shipout/internal/backup"
	"shipout/internal/fsops"
	"shipout/internal/manifest"
)

// testEnv wires a real engine against temporary directories.
type testEnv struct {
	engine    *Engine
	store     *manifest.FileStore
	clock     clockwork.FakeClock
	sourceDir string
	destRoot  string
	backupDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := fsops.NewRealFS()
	destRoot := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	logger := zap.NewNop()
	store := manifest.NewFileStore(fs, filepath.Join(destRoot, ".shipout-manifest.json"), clock, logger)
	archiver := backup.NewArchiver(fs, logger)

	return &testEnv{
		engine:    New(fs, store, archiver, clock, logger),
		store:     store,
		clock:     clock,
		sourceDir: t.TempDir(),
		destRoot:  destRoot,
		backupDir: filepath.Join(destRoot, ".shipout", "backups"),
	}
}

func (env *testEnv) deployRequest() *DeployRequest {
	return &DeployRequest{
		SourceDir: env.sourceDir,
		DestRoot:  env.destRoot,
	}
}

// writeFiles creates the given relative-path -> content files under root.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// resetDir empties root so a test can stage a different source tree.
func resetDir(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, entry := range entries {
		require.NoError(t, os.RemoveAll(filepath.Join(root, entry.Name())))
	}
}

func pathExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("lstat %s: %v", path, err)
	return false
}

// liveFileEntries walks the given top-level names under root and returns
// every regular file and directory found, mirroring manifest semantics.
func liveFileEntries(t *testing.T, root string, names []string) map[string]manifest.EntryType {
	t.Helper()
	found := map[string]manifest.EntryType{}
	var walk func(abs, rel string)
	walk = func(abs, rel string) {
		info, err := os.Lstat(abs)
		require.NoError(t, err)
		if info.IsDir() {
			found[rel] = manifest.TypeDir
			entries, err := os.ReadDir(abs)
			require.NoError(t, err)
			for _, entry := range entries {
				walk(filepath.Join(abs, entry.Name()), rel+"/"+entry.Name())
			}
			return
		}
		if info.Mode().IsRegular() {
			found[rel] = manifest.TypeFile
		}
	}
	for _, name := range names {
		walk(filepath.Join(root, name), name)
	}
	return found
}
