//go:build linux

package isolation

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/containust/containust/internal/primitives"
)

func mountOverlay(spec OverlaySpec) error {
	// spec.Lower is bottom->top; the kernel's lowerdir= option wants
	// top->bottom (first entry shadows the rest), so reverse it here.
	lower := make([]string, len(spec.Lower))
	for i, d := range spec.Lower {
		lower[len(spec.Lower)-1-i] = d
	}
	opts := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s",
		strings.Join(lower, ":"), spec.Upper, spec.Work)
	if err := unix.Mount("overlay", spec.Merge, "overlay", 0, opts); err != nil {
		return primitives.NewPermissionDenied("mount overlay", err)
	}
	return nil
}

func unmountOverlay(mergePoint string) error {
	if err := unix.Unmount(mergePoint, unix.MNT_DETACH); err != nil {
		return primitives.NewPermissionDenied("unmount overlay", err)
	}
	return nil
}
