package engine

// DeployRequest describes one run of the deployment pipeline. Source and
// destination arrive already resolved; the engine never consults ambient
// process state for paths.
type DeployRequest struct {
	// SourceDir is the build output directory to promote
	SourceDir string

	// DestRoot is the destination root the bundle is merged into
	DestRoot string

	// DryRun reports what would change without touching the destination
	DryRun bool

	// Backup archives the previously deployed tree before removing it
	Backup bool

	// BackupDir is where backup archives live
	BackupDir string

	// BackupKeep is how many archives to retain after a successful run
	BackupKeep int
}

// CleanRequest asks for removal of everything the manifest lists.
type CleanRequest struct {
	DestRoot string
	DryRun   bool
}

// StatusRequest asks for the manifest plus drift against the live tree.
type StatusRequest struct {
	DestRoot string
}

// RestoreRequest asks for the newest backup archive to be extracted back
// into the destination root.
type RestoreRequest struct {
	DestRoot  string
	BackupDir string
}
