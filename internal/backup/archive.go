// Package backup archives the currently deployed tree before a deployment
// removes it, and restores the newest archive on demand.
//
// Archives are tar streams compressed with zstd, named after the UTC
// timestamp of the run that took them, so lexical order is chronological.
package backup

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"shipout/internal/fsops"
	"shipout/internal/manifest"
)

// ErrNoArchives indicates the backup directory holds no archives.
var ErrNoArchives = errors.New("no backup archives found")

const (
	archivePrefix = "shipout-"
	archiveSuffix = ".tar.zst"
)

// ArchiveName returns the file name for a backup taken at t. Names embed
// the UTC timestamp so lexical order matches age.
func ArchiveName(t time.Time) string {
	return archivePrefix + t.UTC().Format("20060102T150405Z") + archiveSuffix
}

// Archiver creates and extracts deployment backup archives.
type Archiver struct {
	fs     fsops.FS
	logger *zap.Logger
}

// NewArchiver creates an Archiver.
func NewArchiver(fs fsops.FS, logger *zap.Logger) *Archiver {
	return &Archiver{fs: fs, logger: logger}
}

// Create archives the manifest-listed tree under destRoot into an archive
// file named name inside dir. Entries missing from the live tree are
// skipped; they drifted away since the manifest was written and there is
// nothing to save. Returns the archive path, or "" when there was nothing
// to archive.
func (a *Archiver) Create(destRoot string, items []manifest.Entry, dir, name string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	archivePath := filepath.Join(dir, name)
	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	written, err := a.writeArchive(f, destRoot, items)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(archivePath)
		return "", err
	}
	if written == 0 {
		// Every listed path had already drifted away
		_ = os.Remove(archivePath)
		return "", nil
	}

	a.logger.Info("backup archive written",
		zap.String("archive", archivePath),
		zap.Int("entries", written))
	return archivePath, nil
}

func (a *Archiver) writeArchive(w io.Writer, destRoot string, items []manifest.Entry) (int, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	written := 0
	for _, item := range items {
		absPath := filepath.Join(destRoot, filepath.FromSlash(item.Path))
		info, err := a.fs.Lstat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return written, fmt.Errorf("failed to stat %s: %w", item.Path, err)
		}

		switch item.Type {
		case manifest.TypeDir:
			if !info.IsDir() {
				continue
			}
			hdr := &tar.Header{
				Name:     item.Path + "/",
				Typeflag: tar.TypeDir,
				Mode:     int64(info.Mode().Perm()),
				ModTime:  info.ModTime(),
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return written, fmt.Errorf("failed to write tar header for %s: %w", item.Path, err)
			}
		case manifest.TypeFile:
			if !info.Mode().IsRegular() {
				continue
			}
			if err := a.addFile(tw, absPath, item.Path, info); err != nil {
				return written, err
			}
		default:
			continue
		}
		written++
	}

	if err := tw.Close(); err != nil {
		return written, fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("failed to finalize zstd stream: %w", err)
	}
	return written, nil
}

func (a *Archiver) addFile(tw *tar.Writer, absPath, relPath string, info os.FileInfo) error {
	hdr := &tar.Header{
		Name:     relPath,
		Typeflag: tar.TypeReg,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", relPath, err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", relPath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", relPath, err)
	}
	return nil
}

// Extract unpacks an archive into destRoot and returns the entries it
// placed, in archive order. Every archived name is validated as a safe
// relative path before anything is written.
func (a *Archiver) Extract(archivePath, destRoot string) ([]manifest.Entry, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	entries := []manifest.Entry{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}

		relPath := strings.TrimSuffix(hdr.Name, "/")
		if err := a.fs.ValidateRelPath(relPath); err != nil {
			return nil, fmt.Errorf("archive contains unsafe path %q: %w", hdr.Name, err)
		}
		absPath := filepath.Join(destRoot, filepath.FromSlash(relPath))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := a.fs.MkdirAll(absPath, os.FileMode(hdr.Mode).Perm()); err != nil {
				return nil, fmt.Errorf("failed to restore directory %s: %w", relPath, err)
			}
			entries = append(entries, manifest.Entry{Path: relPath, Type: manifest.TypeDir})
		case tar.TypeReg:
			if err := a.restoreFile(tr, absPath, os.FileMode(hdr.Mode).Perm()); err != nil {
				return nil, fmt.Errorf("failed to restore %s: %w", relPath, err)
			}
			entries = append(entries, manifest.Entry{Path: relPath, Type: manifest.TypeFile})
		default:
			a.logger.Warn("skipping unsupported archive entry",
				zap.String("name", hdr.Name),
				zap.Uint8("type", hdr.Typeflag))
		}
	}

	return entries, nil
}

func (a *Archiver) restoreFile(r io.Reader, absPath string, perm os.FileMode) error {
	if err := a.fs.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Latest returns the newest archive in dir, or ErrNoArchives.
func (a *Archiver) Latest(dir string) (string, error) {
	names, err := a.list(dir)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoArchives
	}
	return filepath.Join(dir, names[len(names)-1]), nil
}

// Prune removes the oldest archives in dir until at most keep remain.
func (a *Archiver) Prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	names, err := a.list(dir)
	if err != nil {
		return err
	}
	if len(names) <= keep {
		return nil
	}

	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(dir, name)
		if err := a.fs.Remove(path); err != nil {
			return fmt.Errorf("failed to prune archive %s: %w", name, err)
		}
		a.logger.Debug("pruned backup archive", zap.String("archive", path))
	}
	return nil
}

// list returns archive file names in dir sorted oldest first.
func (a *Archiver) list(dir string) ([]string, error) {
	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
