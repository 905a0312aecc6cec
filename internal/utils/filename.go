package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFileName builds a collision-free name for an uploaded file,
// keeping the original extension.
func StoredFileName(original string) string {
	ext := filepath.Ext(original)
	return uuid.NewString() + ext
}

// Slug turns a display name into a filesystem-safe folder fragment.
func Slug(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

// UnitFolder is the per-unit media folder, derived from id and name so a
// rename moves the folder along with the unit.
func UnitFolder(id uint64, name string) string {
	return fmt.Sprintf("%d-%s", id, Slug(name))
}
