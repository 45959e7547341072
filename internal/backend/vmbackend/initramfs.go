package vmbackend

import (
	"bytes"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/containust/containust/internal/primitives"
)

// requiredMountDirs are injected into the customized initramfs so the
// agent has somewhere to mount proc/sys/dev and keep its working state
// (spec §4.10).
var requiredMountDirs = []string{"tmp", "run", "var", "root", "proc", "sys", "dev"}

// agentShellScript is the guest init script run as PID 1: it installs
// busybox symlinks and mounts proc/sys/dev/tmp, then execs the agent
// binary. All network bring-up (netlink, DHCP, DNS) lives in cmd/containust-agent;
// this script only bootstraps far enough to exec it.
const agentShellScript = `#!/bin/sh
/bin/busybox --install -s
mount -t proc proc /proc
mount -t sysfs sysfs /sys
mount -t devtmpfs devtmpfs /dev
mount -t devpts devpts /dev/pts 2>/dev/null
mount -t tmpfs tmpfs /tmp
mkdir -p /tmp/containust
exec /sbin/containust-agent
`

// BuildInitramfs unpacks basePath's cpio archive, copies every entry
// verbatim except "init", injects the agent's required mount-point
// directories, appends the three agent entries ("init",
// "sbin/containust-init", "sbin/containust-agent"), and writes a
// gzip-compressed newc cpio archive to destPath. agentBinary is the
// compiled guest agent's bytes (cmd/containust-agent, built for the
// guest's architecture).
func BuildInitramfs(basePath, destPath string, agentBinary []byte) error {
	baseData, err := os.ReadFile(basePath)
	if err != nil {
		return primitives.NewIo(basePath, "reading base initramfs", err)
	}

	gr, err := gzip.NewReader(bytes.NewReader(baseData))
	if err != nil {
		return primitives.NewSerialization("opening base initramfs gzip stream", err)
	}
	baseEntries, err := ReadCpio(gr)
	gr.Close()
	if err != nil {
		return err
	}

	var out []CpioEntry
	for _, e := range baseEntries {
		if e.Name == "init" {
			continue // shadowed by the containust init entry appended below
		}
		out = append(out, e)
	}
	for _, dir := range requiredMountDirs {
		out = append(out, CpioEntry{Name: dir, Mode: modeDir})
	}
	out = append(out,
		CpioEntry{Name: "init", Mode: modeExec, Data: []byte(agentShellScript)},
		CpioEntry{Name: "sbin/containust-init", Mode: modeExec, Data: []byte(agentShellScript)},
		CpioEntry{Name: "sbin/containust-agent", Mode: modeExec, Data: agentBinary},
	)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if err := WriteCpio(gw, out); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return primitives.NewSerialization("closing initramfs gzip stream", err)
	}

	if err := os.WriteFile(destPath, buf.Bytes(), 0o644); err != nil {
		return primitives.NewIo(destPath, "writing customized initramfs", err)
	}
	return nil
}
