package engine

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"shipout/internal/manifest"
)

// scanDeployed produces the manifest entries for the top-level names a
// deployment just copied, in copy order. Each directory appears
// immediately before its descendants; within a directory, entries come in
// the stable sorted order of the underlying listing. Paths use "/" on
// every platform. Symlinks and other irregular entries are skipped, not
// followed.
//
// Only the copied names are scanned, so files that already lived in the
// destination root (a .git directory, the manifest itself) are never
// claimed by the manifest.
func (e *Engine) scanDeployed(destRoot string, names []string) ([]manifest.Entry, error) {
	items := []manifest.Entry{}
	for _, name := range names {
		absPath := filepath.Join(destRoot, name)
		info, err := e.fs.Lstat(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat deployed entry %s: %w", name, err)
		}

		switch {
		case info.IsDir():
			items = append(items, manifest.Entry{Path: name, Type: manifest.TypeDir})
			children, err := e.scanDir(absPath, name)
			if err != nil {
				return nil, err
			}
			items = append(items, children...)
		case info.Mode().IsRegular():
			items = append(items, manifest.Entry{Path: name, Type: manifest.TypeFile})
		}
	}
	return items, nil
}

// scanDir returns a fully materialized pre-order traversal of absDir,
// with every emitted path prefixed by relPrefix.
func (e *Engine) scanDir(absDir, relPrefix string) ([]manifest.Entry, error) {
	entries, err := e.fs.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", relPrefix, err)
	}

	items := []manifest.Entry{}
	for _, entry := range entries {
		relPath := path.Join(relPrefix, entry.Name())

		switch {
		case entry.IsDir():
			items = append(items, manifest.Entry{Path: relPath, Type: manifest.TypeDir})
			children, err := e.scanDir(filepath.Join(absDir, entry.Name()), relPath)
			if err != nil {
				return nil, err
			}
			items = append(items, children...)
		case entry.Type().IsRegular():
			items = append(items, manifest.Entry{Path: relPath, Type: manifest.TypeFile})
		default:
			// Symlinks and other irregular entries are not deployed state
		}
	}
	return items, nil
}

// relPaths extracts the path column from a set of entries.
func relPaths(items []manifest.Entry) []string {
	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.Path
	}
	return paths
}

// statDir verifies that p exists and is a directory.
func (e *Engine) statDir(p string) (bool, error) {
	info, err := e.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
