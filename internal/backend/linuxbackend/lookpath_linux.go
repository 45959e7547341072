//go:build linux

package linuxbackend

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/containust/containust/internal/primitives"
)

var defaultPathDirs = []string{"/usr/local/sbin", "/usr/local/bin", "/usr/sbin", "/usr/bin", "/sbin", "/bin"}

// lookPathInRoot resolves name against the default PATH inside the
// process's (already pivoted) root filesystem. Names containing a slash
// are used verbatim.
func lookPathInRoot(name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}
	for _, dir := range defaultPathDirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", primitives.NewNotFound("executable", name)
}
