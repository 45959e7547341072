//go:build linux

package linuxbackend

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/containust/containust/internal/isolation"
	"github.com/containust/containust/internal/primitives"
)

var joinedNamespaceKinds = []string{"mnt", "uts", "ipc", "net", "pid"}

func runExec(pid int, argv []string) error {
	if len(argv) == 0 {
		return primitives.NewConfig("exec requires a command")
	}
	for _, kind := range joinedNamespaceKinds {
		path := fmt.Sprintf("/proc/%d/ns/%s", pid, kind)
		f, err := os.Open(path)
		if err != nil {
			return primitives.NewNotFound("namespace", path)
		}
		err = isolation.JoinNamespace(int(f.Fd()), kind)
		f.Close()
		if err != nil {
			return err
		}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return primitives.NewIo(argv[0], "running exec target", err)
	}
	os.Exit(cmd.ProcessState.ExitCode())
	return nil
}
