//go:build linux

package isolation

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/containust/containust/internal/primitives"
)

func mountProc(target string) error {
	if err := unix.Mount("proc", target, "proc", 0, ""); err != nil {
		return primitives.NewPermissionDenied("mount proc", err)
	}
	return nil
}

func mountSysReadonly(target string) error {
	flags := uintptr(unix.MS_RDONLY)
	if err := unix.Mount("sysfs", target, "sysfs", flags, ""); err != nil {
		return primitives.NewPermissionDenied("mount sysfs", err)
	}
	return nil
}

func mountDevTmpfs(target string, sizeBytes uint64) error {
	opts := fmt.Sprintf("size=%d,mode=755", sizeBytes)
	flags := uintptr(unix.MS_NOSUID | unix.MS_NODEV | unix.MS_NOEXEC)
	if err := unix.Mount("tmpfs", target, "tmpfs", flags, opts); err != nil {
		return primitives.NewPermissionDenied("mount dev tmpfs", err)
	}
	return nil
}

func bindMount(source, target string, readonly bool) error {
	if err := unix.Mount(source, target, "", unix.MS_BIND, ""); err != nil {
		return primitives.NewPermissionDenied("bind mount", err)
	}
	if readonly {
		flags := uintptr(unix.MS_BIND | unix.MS_REMOUNT | unix.MS_RDONLY)
		if err := unix.Mount(source, target, "", flags, ""); err != nil {
			return primitives.NewPermissionDenied("remount bind mount read-only", err)
		}
	}
	return nil
}
