package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Restore extracts the newest backup archive into the destination root.
//
// Whatever the current manifest lists is removed first, then the archived
// tree is unpacked and the manifest rewritten from the extracted entries,
// so a restore behaves exactly like deploying the archived bundle.
func (e *Engine) Restore(ctx context.Context, req *RestoreRequest) (*RestoreResult, error) {
	archivePath, err := e.archiver.Latest(req.BackupDir)
	if err != nil {
		return nil, err
	}

	prev, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}

	if _, err := e.removePrevious(ctx, req.DestRoot, prev.Items); err != nil {
		return nil, err
	}

	entries, err := e.archiver.Extract(archivePath, req.DestRoot)
	if err != nil {
		return nil, err
	}

	man, err := e.store.Save(entries)
	if err != nil {
		return nil, err
	}

	e.logger.Info("restored deployment",
		zap.String("archive", archivePath),
		zap.Int("entries", len(entries)))

	return &RestoreResult{Archive: archivePath, Manifest: man}, nil
}
