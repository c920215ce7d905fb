// Package engine provides the core business logic for shipout.
//
// The engine package acts as the orchestration layer between CLI commands
// and lower-level operations. It runs the deployment pipeline: load the
// previous manifest, remove what it lists, copy the new bundle in, scan
// what was placed, and persist the fresh manifest.
//
// Key components:
//   - Engine: orchestrator wired with filesystem, manifest store, clock
//   - Deploy/Clean: the promotion pipeline and its inverse
//   - Reconciliation: manifest-driven removal and whole-subtree copy
//   - Scanning: pre-order traversal producing the next manifest
package engine

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"shipout/internal/backup"
	"shipout/internal/fsops"
	"shipout/internal/manifest"
)

// Engine orchestrates all shipout operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs       fsops.FS
	store    manifest.Store
	archiver *backup.Archiver
	clock    clockwork.Clock
	logger   *zap.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	store manifest.Store,
	archiver *backup.Archiver,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		fs:       fs,
		store:    store,
		archiver: archiver,
		clock:    clock,
		logger:   logger,
	}
}
