//go:build linux

package isolation

import (
	"golang.org/x/sys/unix"

	"github.com/containust/containust/internal/primitives"
)

func dropCapabilities(keep CapSet) error {
	for _, c := range keep.Missing() {
		if err := unix.Prctl(unix.PR_CAPBSET_DROP, uintptr(c), 0, 0, 0); err != nil {
			// Already-absent or unknown capability numbers are not errors;
			// EINVAL means the running kernel doesn't know this cap number.
			if err == unix.EINVAL {
				continue
			}
			return primitives.NewPermissionDenied("drop capability from bounding set", err)
		}
	}
	return nil
}
