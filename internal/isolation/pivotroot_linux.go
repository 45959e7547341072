//go:build linux

package isolation

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/containust/containust/internal/primitives"
)

const oldRootDirName = ".old_root"

func pivotRoot(newRoot string) error {
	// bind-mount newRoot onto itself: pivot_root requires both paths to
	// be mount points.
	if err := unix.Mount(newRoot, newRoot, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return primitives.NewPermissionDenied("bind-mount new root onto itself", err)
	}

	oldRoot := filepath.Join(newRoot, oldRootDirName)
	if err := os.MkdirAll(oldRoot, 0o700); err != nil {
		return primitives.NewPermissionDenied("create put-old directory", err)
	}

	if err := unix.PivotRoot(newRoot, oldRoot); err != nil {
		return primitives.NewPermissionDenied("pivot_root", err)
	}

	if err := unix.Chdir("/"); err != nil {
		return primitives.NewPermissionDenied("chdir to new root", err)
	}

	oldRootAfterPivot := "/" + oldRootDirName
	if err := unix.Unmount(oldRootAfterPivot, unix.MNT_DETACH); err != nil {
		return primitives.NewPermissionDenied("unmount old root", err)
	}

	if err := os.RemoveAll(oldRootAfterPivot); err != nil {
		return primitives.NewPermissionDenied("remove old root directory", err)
	}

	return nil
}
