//go:build linux

package linuxbackend

import (
	"syscall"

	"github.com/containust/containust/internal/isolation"
	"github.com/containust/containust/internal/primitives"
)

const devTmpfsSize = 64 * 1024 * 1024

func runInitRemainder(cfg childConfig) error {
	if cfg.Hostname != "" {
		if err := isolation.SetHostname(cfg.Hostname); err != nil {
			return err
		}
	}

	overlay := isolation.OverlaySpec{
		Lower: cfg.RootfsLower,
		Upper: cfg.RootfsUpper,
		Work:  cfg.RootfsWork,
		Merge: cfg.RootfsMerge,
	}
	if err := isolation.MountOverlay(overlay); err != nil {
		return err
	}

	if err := isolation.PivotRoot(cfg.RootfsMerge); err != nil {
		return err
	}

	if err := isolation.MountProc("/proc"); err != nil {
		return err
	}
	if err := isolation.MountSysReadonly("/sys"); err != nil {
		return err
	}
	if err := isolation.MountDevTmpfs("/dev", devTmpfsSize); err != nil {
		return err
	}

	if cfg.Readonly {
		if err := isolation.BindMount("/", "/", true); err != nil {
			return err
		}
	}

	keep := isolation.NewCapSet(cfg.KeepCaps...)
	if err := isolation.DropCapabilities(keep); err != nil {
		return err
	}

	if len(cfg.Command) == 0 {
		return primitives.NewConfig("container %q declares no command", cfg.ContainerID)
	}
	argv0, err := lookPathInRoot(cfg.Command[0])
	if err != nil {
		return err
	}

	env := cfg.Env
	if err := syscall.Exec(argv0, cfg.Command, env); err != nil {
		return primitives.NewIo(argv0, "exec container command", err)
	}
	return nil
}
