package isolation

// PivotRoot replaces the calling process's root filesystem with
// newRoot, stashing the old root at newRoot/.old_root and then
// detaching and removing it.
func PivotRoot(newRoot string) error { return pivotRoot(newRoot) }
