//go:build linux

package isolation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/containust/containust/internal/primitives"
)

func nsFlags(cfg NamespaceConfig) uintptr {
	// User namespace must be unshared first so the kernel grants the
	// calling (unprivileged) task the capabilities needed for the rest.
	var flags uintptr
	if cfg.User {
		flags |= unix.CLONE_NEWUSER
	}
	if cfg.Mount {
		flags |= unix.CLONE_NEWNS
	}
	if cfg.UTS {
		flags |= unix.CLONE_NEWUTS
	}
	if cfg.IPC {
		flags |= unix.CLONE_NEWIPC
	}
	if cfg.PID {
		flags |= unix.CLONE_NEWPID
	}
	if cfg.Net {
		flags |= unix.CLONE_NEWNET
	}
	return flags
}

func cloneFlags(cfg NamespaceConfig) uintptr {
	return nsFlags(cfg)
}

func unshare(cfg NamespaceConfig) error {
	flags := nsFlags(cfg)
	if flags == 0 {
		return nil
	}
	if err := unix.Unshare(int(flags)); err != nil {
		return primitives.NewPermissionDenied("unshare namespaces", err)
	}
	return nil
}

func joinNamespace(fd int, nsType string) error {
	if err := unix.Setns(fd, 0); err != nil {
		return primitives.NewPermissionDenied(fmt.Sprintf("join %s namespace", nsType), err)
	}
	return nil
}

func setHostname(name string) error {
	if err := unix.Sethostname([]byte(name)); err != nil {
		return primitives.NewPermissionDenied("set hostname", err)
	}
	return nil
}

func writeIDMappings(pid int, uidMappings, gidMappings []IDMapping) error {
	if err := writeMapFile(fmt.Sprintf("/proc/%d/uid_map", pid), uidMappings); err != nil {
		return err
	}
	setgroupsPath := fmt.Sprintf("/proc/%d/setgroups", pid)
	if _, err := os.Stat(setgroupsPath); err == nil {
		if err := os.WriteFile(setgroupsPath, []byte("deny"), 0o644); err != nil {
			return primitives.NewPermissionDenied("write setgroups=deny", err)
		}
	}
	if err := writeMapFile(fmt.Sprintf("/proc/%d/gid_map", pid), gidMappings); err != nil {
		return err
	}
	return nil
}

func writeMapFile(path string, mappings []IDMapping) error {
	var b strings.Builder
	for _, m := range mappings {
		b.WriteString(strconv.FormatUint(uint64(m.ContainerID), 10))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(uint64(m.HostID), 10))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(uint64(m.Range), 10))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return primitives.NewPermissionDenied("write "+filepath.Base(path), err)
	}
	return nil
}
