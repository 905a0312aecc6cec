package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/utils"
)

// MediaStore owns the uploaded-file tree under the configured upload
// directory. Paths returned and accepted here are relative to that
// directory; the HTTP layer serves them under /uploads.
//
// Updates are two-phase: new files are staged to disk before the
// database write, and superseded files are unlinked only after the write
// succeeds. A database failure unlinks the staged files instead, so the
// worst inconsistency is extra files on disk, never a dangling DB path.
type MediaStore struct {
	baseDir string
}

// NewMediaStore creates a MediaStore rooted at baseDir.
func NewMediaStore(baseDir string) *MediaStore {
	return &MediaStore{baseDir: baseDir}
}

// SaveFiles stages uploaded files under the given subdirectory and
// returns their stored relative paths.
func (m *MediaStore) SaveFiles(files []*multipart.FileHeader, subdir string) ([]string, error) {
	dir := filepath.Join(m.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	var stored []string
	for _, fh := range files {
		name := utils.StoredFileName(fh.Filename)
		rel := filepath.Join(subdir, name)

		if err := m.saveOne(fh, filepath.Join(dir, name)); err != nil {
			// Roll back the files staged so far.
			m.RemoveFiles(stored)
			return nil, err
		}
		stored = append(stored, rel)
	}
	return stored, nil
}

func (m *MediaStore) saveOne(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// RemoveFiles unlinks stored files. Failures are logged and swallowed;
// the database row is already the source of truth at this point.
func (m *MediaStore) RemoveFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.Join(m.baseDir, p)); err != nil && !os.IsNotExist(err) {
			logger.Get().Warn("failed to remove stored file",
				zap.String("path", p),
				zap.Error(err))
		}
	}
}

// RemoveDir removes a whole media folder, same swallow policy.
func (m *MediaStore) RemoveDir(subdir string) {
	if subdir == "" {
		return
	}
	if err := os.RemoveAll(filepath.Join(m.baseDir, subdir)); err != nil {
		logger.Get().Warn("failed to remove media folder",
			zap.String("dir", subdir),
			zap.Error(err))
	}
}

// RenameDir moves a media folder, used when a unit is renamed. Missing
// source folders are fine; the unit may simply have no media yet.
func (m *MediaStore) RenameDir(oldSubdir, newSubdir string) error {
	oldPath := filepath.Join(m.baseDir, oldSubdir)
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	return os.Rename(oldPath, filepath.Join(m.baseDir, newSubdir))
}

// Exists reports whether a stored path is still on disk.
func (m *MediaStore) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(m.baseDir, rel))
	return err == nil
}

// BaseDir returns the root of the upload tree, for the static mount.
func (m *MediaStore) BaseDir() string {
	return m.baseDir
}
