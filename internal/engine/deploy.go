package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shipout/internal/backup"
)

// Deploy promotes the build output into the destination root.
//
// Algorithm steps:
// 1. Validate the source and destination directories
// 2. Load the previous manifest (absent or malformed means empty)
// 3. Optionally archive the previously deployed tree
// 4. Remove every path the previous manifest lists, deepest-first
// 5. Copy each top-level source entry into the destination
// 6. Scan the copied entries into a fresh manifest
// 7. Persist the new manifest atomically
//
// A failure between steps 4 and 7 leaves the destination in an
// intermediate state no manifest describes. That is an accepted
// limitation: the stale manifest is deliberately kept, so the next run
// still removes the paths it knows about, and the backup archive from
// step 3 is the recovery path.
func (e *Engine) Deploy(ctx context.Context, req *DeployRequest) (*DeployResult, error) {
	// Step 1: validate source and destination
	isDir, err := e.statDir(req.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !isDir {
		return nil, fmt.Errorf("%w: %s (run your build before deploying)", ErrSourceMissing, req.SourceDir)
	}

	isDir, err = e.statDir(req.DestRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat destination root: %w", err)
	}
	if !isDir {
		return nil, fmt.Errorf("%w: %s", ErrDestMissing, req.DestRoot)
	}

	// Step 2: load the previous manifest
	prev, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}
	e.logger.Info("starting deployment",
		zap.String("source", req.SourceDir),
		zap.String("dest", req.DestRoot),
		zap.Int("previous_items", len(prev.Items)),
		zap.Bool("dry_run", req.DryRun))

	if req.DryRun {
		copied, err := e.listSourceNames(req.SourceDir)
		if err != nil {
			return nil, err
		}
		removed := relPaths(prev.Items)
		sortDeepestFirst(removed)
		return &DeployResult{
			Removed:  removed,
			Copied:   copied,
			Manifest: prev,
			DryRun:   true,
		}, nil
	}

	// Step 3: backup before anything is destroyed
	var backupPath string
	if req.Backup {
		name := backup.ArchiveName(e.clock.Now())
		backupPath, err = e.archiver.Create(req.DestRoot, prev.Items, req.BackupDir, name)
		if err != nil {
			return nil, fmt.Errorf("failed to back up previous deployment: %w", err)
		}
	}

	// Step 4: remove the previous deployment
	removed, err := e.removePrevious(ctx, req.DestRoot, prev.Items)
	if err != nil {
		return nil, err
	}
	e.logger.Info("removed previous deployment", zap.Int("paths", len(removed)))

	// Step 5: copy the new bundle in
	copied, err := e.copyAll(req.SourceDir, req.DestRoot)
	if err != nil {
		return nil, err
	}
	e.logger.Info("copied new bundle", zap.Strings("entries", copied))

	// Step 6: scan what was placed
	items, err := e.scanDeployed(req.DestRoot, copied)
	if err != nil {
		return nil, err
	}

	// Step 7: persist the new manifest
	man, err := e.store.Save(items)
	if err != nil {
		return nil, err
	}

	if req.Backup {
		if err := e.archiver.Prune(req.BackupDir, req.BackupKeep); err != nil {
			// Deployment already succeeded; stale archives are not fatal
			e.logger.Warn("failed to prune backup archives", zap.Error(err))
		}
	}

	e.logger.Info("deployment complete",
		zap.String("deploy_id", man.DeployID),
		zap.Int("manifest_items", len(man.Items)))

	return &DeployResult{
		Removed:    removed,
		Copied:     copied,
		Manifest:   man,
		BackupPath: backupPath,
	}, nil
}

// listSourceNames returns the top-level source entries a deploy would
// copy, without touching anything.
func (e *Engine) listSourceNames(sourceDir string) ([]string, error) {
	entries, err := e.fs.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
