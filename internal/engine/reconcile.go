package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"shipout/internal/manifest"
)

// removeWorkers bounds concurrent deletions. Manifest paths are disjoint
// and sorted deepest-first, so the deletions cannot race each other into
// an error: removing an already-missing path is a no-op.
const removeWorkers = 8

// resolveWithinRoot resolves relPath against root and rejects any result
// that escapes it. The destination root is a security boundary: no
// deletion or write may ever land outside it.
func resolveWithinRoot(root, relPath string) (string, error) {
	root = filepath.Clean(root)
	abs := filepath.Clean(filepath.Join(root, filepath.FromSlash(relPath)))

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q against destination root: %w", relPath, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q resolves outside the destination root", relPath)
	}

	return abs, nil
}

// deeperFirst is the removal ordering: longest path first, ties broken
// reverse-alphabetically.
func deeperFirst(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

// sortDeepestFirst orders relative paths the way removePrevious deletes
// them, so previews report the same order a live run does.
func sortDeepestFirst(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return deeperFirst(paths[i], paths[j])
	})
}

// removePrevious deletes every path the previous manifest lists.
//
// All paths are validated against the destination root before the first
// deletion happens, then removed deepest-first. Already-missing paths are
// tolerated. Returns the relative paths in removal order.
func (e *Engine) removePrevious(ctx context.Context, destRoot string, items []manifest.Entry) ([]string, error) {
	type target struct {
		rel string
		abs string
	}

	targets := make([]target, 0, len(items))
	for _, item := range items {
		if err := e.fs.ValidateRelPath(item.Path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsafePath, err)
		}
		abs, err := resolveWithinRoot(destRoot, item.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsafePath, err)
		}
		targets = append(targets, target{rel: item.Path, abs: abs})
	}

	// Longest path first, so no deletion ever targets a descendant of a
	// path deleted earlier in the batch
	sort.Slice(targets, func(i, j int) bool {
		return deeperFirst(targets[i].rel, targets[j].rel)
	})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(removeWorkers)
	for _, tgt := range targets {
		tgt := tgt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.fs.RemoveAll(tgt.abs); err != nil {
				return fmt.Errorf("failed to remove %s: %w", tgt.rel, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	removed := make([]string, len(targets))
	for i, tgt := range targets {
		removed[i] = tgt.rel
	}
	return removed, nil
}

// copyAll copies every immediate child of sourceDir into destRoot.
//
// Any existing destination entry with the same name is removed first:
// the copy replaces whole subtrees, it never merges. Returns the copied
// top-level names in listing order.
func (e *Engine) copyAll(sourceDir, destRoot string) ([]string, error) {
	entries, err := e.fs.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		dstPath, err := resolveWithinRoot(destRoot, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsafePath, err)
		}

		if err := e.fs.RemoveAll(dstPath); err != nil {
			return nil, fmt.Errorf("failed to clear destination entry %s: %w", name, err)
		}
		if err := e.fs.Copy(filepath.Join(sourceDir, name), dstPath); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		names = append(names, name)
	}

	return names, nil
}
