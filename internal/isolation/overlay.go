package isolation

// OverlaySpec describes an overlay mount: ordered lower directories
// (read-only, bottom->top), a writable upper, a work directory, and the
// merged mount point.
type OverlaySpec struct {
	Lower []string
	Upper string
	Work  string
	Merge string
}

// MountOverlay mounts the overlay filesystem described by spec at
// spec.Merge.
func MountOverlay(spec OverlaySpec) error { return mountOverlay(spec) }

// UnmountOverlay lazily detaches the merged mount point.
func UnmountOverlay(mergePoint string) error { return unmountOverlay(mergePoint) }
