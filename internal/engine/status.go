package engine

import (
	"fmt"
	"os"

	"shipout/internal/manifest"
)

// Status reports the persisted manifest and its drift against the live
// destination tree: entries that have gone missing and entries whose type
// flipped between file and directory since the manifest was written.
func (e *Engine) Status(req *StatusRequest) (*StatusResult, error) {
	m, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}

	result := &StatusResult{
		ManifestPath: e.store.Path(),
		Manifest:     m,
		Missing:      []string{},
		Changed:      []string{},
	}

	for _, item := range m.Items {
		absPath, err := resolveWithinRoot(req.DestRoot, item.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsafePath, err)
		}

		info, err := e.fs.Lstat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				result.Missing = append(result.Missing, item.Path)
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", item.Path, err)
		}

		if info.IsDir() != (item.Type == manifest.TypeDir) {
			result.Changed = append(result.Changed, item.Path)
		}
	}

	return result, nil
}
