//go:build !linux

package linuxbackend

import "os/exec"

func applyNamespaceCloneFlags(cmd *exec.Cmd) {}
