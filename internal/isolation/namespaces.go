// Package isolation wraps the Linux namespace, cgroup v2, overlay,
// pivot_root, capability, and mount primitives the Linux backend composes
// to build an isolated container (spec §4.6). Every primitive carries its
// own platform gate: non-Linux builds return a fixed Config error reading
// "Linux required for native container operations," per spec §9.
package isolation

import "github.com/containust/containust/internal/primitives"

// errLinuxRequired is the fixed stub error every non-Linux implementation
// returns.
var errLinuxRequired = primitives.NewConfig("Linux required for native container operations")

// NamespaceConfig selects which of {user, mount, pid, net, ipc, uts} to
// unshare.
type NamespaceConfig struct {
	User  bool
	Mount bool
	PID   bool
	Net   bool
	IPC   bool
	UTS   bool
}

// IDMapping is one line of a uid_map/gid_map: "container_id host_id range".
type IDMapping struct {
	ContainerID uint32
	HostID      uint32
	Range       uint32
}

// Unshare detaches the calling task from the chosen namespace subset in a
// single batched call. Ordering (user first) matches the kernel's rules for
// unprivileged use.
func Unshare(cfg NamespaceConfig) error {
	return unshare(cfg)
}

// JoinNamespace joins an existing namespace identified by an open file
// descriptor (as produced by opening /proc/<pid>/ns/<type>).
func JoinNamespace(fd int, nsType string) error {
	return joinNamespace(fd, nsType)
}

// SetHostname sets the calling process's UTS hostname. Requires a UTS
// namespace to already be unshared.
func SetHostname(name string) error {
	return setHostname(name)
}

// WriteIDMappings writes identity mappings to the target process's uid_map,
// gid_map, and "setgroups=deny" where present, as required before an
// unprivileged user namespace's mappings become usable.
func WriteIDMappings(pid int, uidMappings, gidMappings []IDMapping) error {
	return writeIDMappings(pid, uidMappings, gidMappings)
}

// CloneFlags translates cfg into the CLONE_NEW* bitmask suitable for
// exec.Cmd's SysProcAttr.Cloneflags. The PID namespace can only take
// effect for a process created this way (clone-time), not via a
// subsequent unshare(2) on an already-running process, so backends that
// need a fresh PID namespace must use this rather than Unshare.
func CloneFlags(cfg NamespaceConfig) uintptr {
	return cloneFlags(cfg)
}
