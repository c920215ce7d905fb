// Package manifest persists the record of paths placed by a deployment.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"shipout/internal/fsops"
)

// Store provides an interface for loading and persisting the deployment
// manifest.
type Store interface {
	// Load reads the persisted manifest. A missing file is not an error:
	// the first-ever deployment has no prior manifest, so an empty
	// manifest is returned. Content that does not parse as a manifest is
	// also recovered as empty items. Any other read failure is returned.
	Load() (*Manifest, error)

	// Save atomically replaces the manifest with the given items, stamped
	// with the current time and a fresh deploy ID.
	Save(items []Entry) (*Manifest, error)

	// Delete removes the manifest file, tolerant of absence.
	Delete() error

	// Path returns the location of the manifest file.
	Path() string
}

// FileStore implements Store using a JSON file on disk.
type FileStore struct {
	fs     fsops.FS
	path   string
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewFileStore creates a FileStore persisting to path.
func NewFileStore(fs fsops.FS, path string, clock clockwork.Clock, logger *zap.Logger) *FileStore {
	return &FileStore{
		fs:     fs,
		path:   path,
		clock:  clock,
		logger: logger,
	}
}

// Load reads the persisted manifest.
func (s *FileStore) Load() (*Manifest, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		// Malformed manifest: proceed as if no prior deployment existed
		s.logger.Warn("manifest is malformed, treating as empty",
			zap.String("path", s.path),
			zap.Error(err))
		return New(), nil
	}
	if m.Items == nil {
		m.Items = []Entry{}
	}

	return &m, nil
}

// Save atomically replaces the manifest with the given items.
func (s *FileStore) Save(items []Entry) (*Manifest, error) {
	m := &Manifest{
		DeployID:    uuid.New().String(),
		GeneratedAt: s.clock.Now().UTC().Truncate(time.Second),
		Items:       items,
	}
	if m.Items == nil {
		m.Items = []Entry{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return m, nil
}

// Delete removes the manifest file.
func (s *FileStore) Delete() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete manifest: %w", err)
	}
	return nil
}

// Path returns the location of the manifest file.
func (s *FileStore) Path() string {
	return s.path
}
