package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"shipout/internal/fsops"
)

func newTestStore(t *testing.T, path string) *FileStore {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	return NewFileStore(fsops.NewRealFS(), path, clock, zap.NewNop())
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, filepath.Join(dir, "manifest.json"))

	items := []Entry{
		{Path: "index.html", Type: TypeFile},
		{Path: "assets", Type: TypeDir},
		{Path: "assets/logo.png", Type: TypeFile},
	}

	saved, err := store.Save(items)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.DeployID == "" {
		t.Error("expected a deploy ID")
	}
	if saved.GeneratedAt.IsZero() {
		t.Error("expected a generatedAt timestamp")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DeployID != saved.DeployID {
		t.Errorf("deploy ID mismatch: got %q, want %q", loaded.DeployID, saved.DeployID)
	}
	if len(loaded.Items) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(loaded.Items))
	}
	for i, item := range items {
		if loaded.Items[i] != item {
			t.Errorf("item %d: got %+v, want %+v", i, loaded.Items[i], item)
		}
	}
}

func TestFileStore_LoadMissingReturnsEmpty(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "manifest.json"))

	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing manifest should not error, got %v", err)
	}
	if len(m.Items) != 0 {
		t.Errorf("expected empty items, got %d", len(m.Items))
	}
	if m.Items == nil {
		t.Error("expected items to be initialized")
	}
}

func TestFileStore_LoadMalformedReturnsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "not json at all"},
		{name: "wrong shape", content: `{"items": "oops"}`},
		{name: "truncated", content: `{"items": [{"path":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}

			store := newTestStore(t, path)
			m, err := store.Load()
			if err != nil {
				t.Fatalf("malformed manifest should be recovered, got %v", err)
			}
			if len(m.Items) != 0 {
				t.Errorf("expected empty items, got %d", len(m.Items))
			}
		})
	}
}

func TestFileStore_LoadUnreadableFails(t *testing.T) {
	dir := t.TempDir()
	// A directory at the manifest path produces a read error that is not
	// "not found" and must propagate
	path := filepath.Join(dir, "manifest.json")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	store := newTestStore(t, path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected an error for an unreadable manifest")
	}
}

func TestFileStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, filepath.Join(dir, "manifest.json"))

	// Deleting a missing manifest is not an error
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete of missing manifest failed: %v", err)
	}

	if _, err := store.Save([]Entry{{Path: "index.html", Type: TypeFile}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Lstat(store.Path()); !os.IsNotExist(err) {
		t.Errorf("expected manifest to be gone, got %v", err)
	}
}
