package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_ValidateRelPath(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{
			name:      "valid relative path",
			path:      "assets/img/logo.png",
			wantError: false,
		},
		{
			name:      "valid single file",
			path:      "index.html",
			wantError: false,
		},
		{
			name:      "empty path",
			path:      "",
			wantError: true,
		},
		{
			name:      "current directory",
			path:      ".",
			wantError: true,
		},
		{
			name:      "absolute path",
			path:      "/etc/hosts",
			wantError: true,
		},
		{
			name:      "parent directory traversal",
			path:      "../etc/hosts",
			wantError: true,
		},
		{
			name:      "traversal in middle",
			path:      "assets/../../../etc/hosts",
			wantError: true,
		},
		{
			name:      "double traversal",
			path:      "../../etc",
			wantError: true,
		},
		{
			name:      "path with dot prefix",
			path:      ".well-known/security.txt",
			wantError: false,
		},
		{
			name:      "internal dotdot that stays inside",
			path:      "assets/../index.html",
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateRelPath(tt.path)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRelPath(%q) error = %v, wantError %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "manifest.json")

	if err := fs.AtomicWrite(path, []byte(`{"v":1}`), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("unexpected content %q", data)
	}

	// Overwrite must replace, not append
	if err := fs.AtomicWrite(path, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatalf("AtomicWrite overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"v":2}` {
		t.Errorf("expected overwritten content, got %q", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the target file, found %d entries", len(entries))
	}
}

func TestRealFS_Copy_Directory(t *testing.T) {
	fs := NewRealFS()
	src := t.TempDir()
	dst := t.TempDir()

	mustWrite(t, filepath.Join(src, "index.html"), "<html>")
	mustWrite(t, filepath.Join(src, "assets", "logo.png"), "png-bytes")

	if err := fs.Copy(src, filepath.Join(dst, "site")); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	for path, want := range map[string]string{
		filepath.Join(dst, "site", "index.html"):         "<html>",
		filepath.Join(dst, "site", "assets", "logo.png"): "png-bytes",
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
		if string(data) != want {
			t.Errorf("%s: got %q, want %q", path, data, want)
		}
	}
}

func TestRealFS_Copy_TypeMismatchReplacesDestination(t *testing.T) {
	fs := NewRealFS()
	src := t.TempDir()
	dst := t.TempDir()

	// Source has a file where the destination has a directory of the same name
	mustWrite(t, filepath.Join(src, "assets"), "now a file")
	mustWrite(t, filepath.Join(dst, "assets", "old.png"), "stale")

	if err := fs.Copy(filepath.Join(src, "assets"), filepath.Join(dst, "assets")); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	info, err := os.Lstat(filepath.Join(dst, "assets"))
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if info.IsDir() {
		t.Error("expected destination to be replaced by a file")
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	ok, err := fs.Exists(filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if ok {
		t.Error("expected false for missing path")
	}

	mustWrite(t, filepath.Join(dir, "yes.txt"), "x")
	ok, err = fs.Exists(filepath.Join(dir, "yes.txt"))
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !ok {
		t.Error("expected true for existing path")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
