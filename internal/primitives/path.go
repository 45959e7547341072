package primitives

import (
	"os"
	"path/filepath"
)

// ResolveCanonical returns the absolute, symlink-resolved form of path,
// wrapping any failure as an Io error.
func ResolveCanonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", NewIo(path, "resolving absolute path", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// The target need not exist yet (e.g. a directory about to be
			// created); fall back to the absolute, un-evaluated form.
			return abs, nil
		}
		return "", NewIo(path, "resolving symlinks", err)
	}
	return resolved, nil
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewIo(dir, "creating directory", err)
	}
	return nil
}
