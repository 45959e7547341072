//go:build !linux

package isolation

import "github.com/containust/containust/internal/primitives"

func cgroupCreate(Cgroup) error { return errLinuxRequired }

func cgroupApplyLimits(Cgroup, primitives.ResourceLimits) error { return errLinuxRequired }

func cgroupAddProcess(Cgroup, int) error { return errLinuxRequired }

func cgroupDestroy(Cgroup) error { return errLinuxRequired }
