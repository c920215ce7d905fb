package engine

import "shipout/internal/manifest"

// DeployResult reports what a deployment run did (or, for a dry run,
// would do).
type DeployResult struct {
	// Removed lists the previously deployed paths that were deleted,
	// deepest first
	Removed []string `json:"removed"`

	// Copied lists the top-level source entries copied into the
	// destination
	Copied []string `json:"copied"`

	// Manifest is the freshly persisted manifest (the previous one on a
	// dry run)
	Manifest *manifest.Manifest `json:"manifest"`

	// BackupPath is the archive written before removal, if any
	BackupPath string `json:"backupPath,omitempty"`

	DryRun bool `json:"dryRun"`
}

// CleanResult reports which paths a clean removed.
type CleanResult struct {
	Removed []string `json:"removed"`
	DryRun  bool     `json:"dryRun"`
}

// StatusResult reports the persisted manifest and its drift against the
// live destination tree.
type StatusResult struct {
	ManifestPath string             `json:"manifestPath"`
	Manifest     *manifest.Manifest `json:"manifest"`

	// Missing lists manifest paths that no longer exist
	Missing []string `json:"missing"`

	// Changed lists manifest paths whose type flipped between file and
	// directory
	Changed []string `json:"changed"`
}

// InSync reports whether the live tree still matches the manifest.
func (r *StatusResult) InSync() bool {
	return len(r.Missing) == 0 && len(r.Changed) == 0
}

// RestoreResult reports which archive was extracted and the manifest
// rewritten from it.
type RestoreResult struct {
	Archive  string             `json:"archive"`
	Manifest *manifest.Manifest `json:"manifest"`
}
