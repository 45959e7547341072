package isolation

// MountProc mounts a fresh procfs at target.
func MountProc(target string) error { return mountProc(target) }

// MountSysReadonly mounts sysfs read-only at target.
func MountSysReadonly(target string) error { return mountSysReadonly(target) }

// MountDevTmpfs mounts a tmpfs of the given size in bytes at target with
// nosuid,nodev,noexec.
func MountDevTmpfs(target string, sizeBytes uint64) error { return mountDevTmpfs(target, sizeBytes) }

// BindMount bind-mounts source onto target, optionally remounting
// read-only afterward.
func BindMount(source, target string, readonly bool) error { return bindMount(source, target, readonly) }
