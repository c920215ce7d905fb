package manifest

import "time"

// EntryType distinguishes deployed files from deployed directories.
type EntryType string

const (
	// TypeFile marks a regular file placed by a deployment.
	TypeFile EntryType = "file"

	// TypeDir marks a directory placed by a deployment.
	TypeDir EntryType = "dir"
)

// Entry records one path a deployment placed in the destination root.
// Path is slash-separated and always relative to the destination root;
// it never contains ".." segments or a leading separator.
type Entry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// Manifest is the authoritative record of what the previous deployment
// placed in the destination root. It is read at the start of a run and
// fully replaced (never patched) at the end of a successful one.
type Manifest struct {
	// DeployID identifies the run that wrote this manifest
	DeployID string `json:"deployId"`

	// GeneratedAt is when the manifest was written
	GeneratedAt time.Time `json:"generatedAt"`

	// Items lists every deployed path, each directory before its children
	Items []Entry `json:"items"`
}

// New creates an empty Manifest.
func New() *Manifest {
	return &Manifest{Items: []Entry{}}
}
