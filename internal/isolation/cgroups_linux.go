//go:build linux

package isolation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/containust/containust/internal/primitives"
)

func cgroupCreate(c Cgroup) error {
	if err := os.MkdirAll(c.Path, 0o755); err != nil {
		return primitives.NewPermissionDenied("create cgroup directory", err)
	}
	return nil
}

func cgroupApplyLimits(c Cgroup, limits primitives.ResourceLimits) error {
	if limits.MemoryBytes != nil {
		if err := writeCgroupFile(c, "memory.max", strconv.FormatUint(*limits.MemoryBytes, 10)); err != nil {
			return err
		}
	}
	if limits.CPUWeight != nil {
		if err := writeCgroupFile(c, "cpu.weight", strconv.FormatUint(uint64(*limits.CPUWeight), 10)); err != nil {
			return err
		}
	}
	if limits.IOWeight != nil {
		if err := writeCgroupFile(c, "io.weight", strconv.FormatUint(uint64(*limits.IOWeight), 10)); err != nil {
			return err
		}
	}
	return nil
}

func writeCgroupFile(c Cgroup, name, value string) error {
	path := filepath.Join(c.Path, name)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return primitives.NewPermissionDenied(fmt.Sprintf("write cgroup %s", name), err)
	}
	return nil
}

func cgroupAddProcess(c Cgroup, pid int) error {
	path := filepath.Join(c.Path, "cgroup.procs")
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return primitives.NewPermissionDenied("add process to cgroup", err)
	}
	return nil
}

func cgroupDestroy(c Cgroup) error {
	if err := os.RemoveAll(c.Path); err != nil {
		return primitives.NewPermissionDenied("destroy cgroup", err)
	}
	return nil
}
