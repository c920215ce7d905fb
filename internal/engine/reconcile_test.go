package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipout/internal/manifest"
)

func TestRemovePrevious_CleanupCompleteness(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, env.destRoot, map[string]string{
		"index.html":          "<html>",
		"assets/logo.png":     "png",
		"assets/css/site.css": "body{}",
	})

	items := []manifest.Entry{
		{Path: "index.html", Type: manifest.TypeFile},
		{Path: "assets", Type: manifest.TypeDir},
		{Path: "assets/logo.png", Type: manifest.TypeFile},
		{Path: "assets/css", Type: manifest.TypeDir},
		{Path: "assets/css/site.css", Type: manifest.TypeFile},
	}

	removed, err := env.engine.removePrevious(context.Background(), env.destRoot, items)
	require.NoError(t, err)
	assert.Len(t, removed, len(items))

	for _, item := range items {
		assert.False(t, pathExists(t, filepath.Join(env.destRoot, filepath.FromSlash(item.Path))),
			"expected %s to be removed", item.Path)
	}

	// Longest paths came first
	for i := 1; i < len(removed); i++ {
		assert.GreaterOrEqual(t, len(removed[i-1]), len(removed[i]),
			"removal order must be longest-path-first: %v", removed)
	}
}

func TestRemovePrevious_UnsafePathAbortsEverything(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, env.destRoot, map[string]string{"index.html": "<html>"})

	outside := filepath.Join(filepath.Dir(env.destRoot), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("safe"), 0644))

	tests := []struct {
		name string
		path string
	}{
		{name: "traversal", path: "../../etc"},
		{name: "sibling escape", path: "../outside.txt"},
		{name: "absolute", path: "/etc/hosts"},
		{name: "root itself", path: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []manifest.Entry{
				{Path: "index.html", Type: manifest.TypeFile},
				{Path: tt.path, Type: manifest.TypeFile},
			}

			_, err := env.engine.removePrevious(context.Background(), env.destRoot, items)
			require.ErrorIs(t, err, ErrUnsafePath)

			// Validation happens before any deletion: the legitimate
			// entry survives too
			assert.True(t, pathExists(t, filepath.Join(env.destRoot, "index.html")))
			assert.True(t, pathExists(t, outside))
		})
	}
}

func TestRemovePrevious_MissingPathsTolerated(t *testing.T) {
	env := newTestEnv(t)

	items := []manifest.Entry{
		{Path: "never/was/here.txt", Type: manifest.TypeFile},
		{Path: "never/was", Type: manifest.TypeDir},
		{Path: "never", Type: manifest.TypeDir},
	}

	removed, err := env.engine.removePrevious(context.Background(), env.destRoot, items)
	require.NoError(t, err)
	assert.Len(t, removed, 3)
}

func TestRemovePrevious_Empty(t *testing.T) {
	env := newTestEnv(t)

	removed, err := env.engine.removePrevious(context.Background(), env.destRoot, nil)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCopyAll_ReplacesWholeSubtree(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, env.sourceDir, map[string]string{"assets/new.css": "new"})
	writeFiles(t, env.destRoot, map[string]string{"assets/stale.css": "stale"})

	names, err := env.engine.copyAll(env.sourceDir, env.destRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"assets"}, names)

	// Overwrite semantics, not a merge: the stale file is gone
	assert.False(t, pathExists(t, filepath.Join(env.destRoot, "assets", "stale.css")))
	assert.True(t, pathExists(t, filepath.Join(env.destRoot, "assets", "new.css")))
}

func TestCopyAll_DirectoryReplacedByFile(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, env.sourceDir, map[string]string{"assets": "now a file"})
	writeFiles(t, env.destRoot, map[string]string{"assets/old.png": "old"})

	_, err := env.engine.copyAll(env.sourceDir, env.destRoot)
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(env.destRoot, "assets"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestResolveWithinRoot(t *testing.T) {
	tests := []struct {
		name      string
		rel       string
		wantError bool
	}{
		{name: "simple file", rel: "index.html", wantError: false},
		{name: "nested", rel: "assets/logo.png", wantError: false},
		{name: "traversal", rel: "../../etc", wantError: true},
		{name: "dot", rel: ".", wantError: true},
		{name: "collapsing traversal", rel: "a/../../b", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveWithinRoot("/srv/site", tt.rel)
			if (err != nil) != tt.wantError {
				t.Errorf("resolveWithinRoot(%q) error = %v, wantError %v", tt.rel, err, tt.wantError)
			}
		})
	}
}
