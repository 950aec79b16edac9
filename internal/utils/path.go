// Package utils provides prefix resolution and path helpers for the b tracker.
package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CanonicalizePath returns the absolute, symlink-resolved form of path.
// It falls back to the absolute path when symlinks cannot be resolved
// (for example because the path does not exist yet), and to path itself
// when even that fails.
func CanonicalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if canonical, err := filepath.EvalSymlinks(abs); err == nil {
		return canonical
	}
	return abs
}

// SamePath reports whether two paths name the same location, honouring
// case-insensitive filesystems on macOS and Windows.
func SamePath(a, b string) bool {
	ca, cb := CanonicalizePath(a), CanonicalizePath(b)
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return strings.EqualFold(ca, cb)
	}
	return ca == cb
}

// FindUp walks from start towards the filesystem root and returns the first
// directory named name found along the way, or "" when there is none.
func FindUp(start, name string) string {
	dir := CanonicalizePath(start)
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
