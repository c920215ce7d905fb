package engine

import "errors"

var (
	// ErrSourceMissing indicates the build output directory is absent or
	// not a directory.
	ErrSourceMissing = errors.New("build output not found")

	// ErrDestMissing indicates the destination root is absent or not a
	// directory.
	ErrDestMissing = errors.New("destination root not found")

	// ErrUnsafePath indicates a manifest or copy path resolves outside
	// the destination root.
	ErrUnsafePath = errors.New("unsafe path")

	// ErrManifestUnreadable indicates the manifest exists but could not
	// be read for a reason other than absence.
	ErrManifestUnreadable = errors.New("manifest unreadable")
)
