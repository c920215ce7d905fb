package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Clean removes every path the manifest lists from the destination root
// and deletes the manifest itself - the inverse of Deploy.
//
// Algorithm steps:
// 1. Load the manifest
// 2. Remove the listed paths, deepest-first
// 3. Delete the manifest file
func (e *Engine) Clean(ctx context.Context, req *CleanRequest) (*CleanResult, error) {
	prev, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}

	if req.DryRun {
		removed := relPaths(prev.Items)
		sortDeepestFirst(removed)
		return &CleanResult{
			Removed: removed,
			DryRun:  true,
		}, nil
	}

	removed, err := e.removePrevious(ctx, req.DestRoot, prev.Items)
	if err != nil {
		return nil, err
	}

	if err := e.store.Delete(); err != nil {
		return nil, err
	}

	e.logger.Info("cleaned deployment",
		zap.String("dest", req.DestRoot),
		zap.Int("paths", len(removed)))

	return &CleanResult{Removed: removed}, nil
}
