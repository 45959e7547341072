package isolation

import (
	"path/filepath"

	"github.com/containust/containust/internal/primitives"
)

const cgroupV2Root = "/sys/fs/cgroup"

// Cgroup is a handle to a directory under the v2 hierarchy root:
// /sys/fs/cgroup/<app>/<container_id>.
type Cgroup struct {
	Path string
}

// NewCgroup returns a handle for the given app name and container id,
// without touching the filesystem.
func NewCgroup(app, containerID string) Cgroup {
	return Cgroup{Path: filepath.Join(cgroupV2Root, app, containerID)}
}

// Create issues mkdir -p for the cgroup's directory.
func (c Cgroup) Create() error { return cgroupCreate(c) }

// ApplyLimits writes memory.max, cpu.weight, io.weight for whichever
// optional limit is set.
func (c Cgroup) ApplyLimits(limits primitives.ResourceLimits) error {
	return cgroupApplyLimits(c, limits)
}

// AddProcess appends pid to cgroup.procs.
func (c Cgroup) AddProcess(pid int) error { return cgroupAddProcess(c, pid) }

// Destroy recursively removes the cgroup's directory.
func (c Cgroup) Destroy() error { return cgroupDestroy(c) }
