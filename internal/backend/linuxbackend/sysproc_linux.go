//go:build linux

package linuxbackend

import (
	"os/exec"
	"syscall"

	"github.com/containust/containust/internal/isolation"
)

func applyNamespaceCloneFlags(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: isolation.CloneFlags(namespaceConfig()),
	}
}
