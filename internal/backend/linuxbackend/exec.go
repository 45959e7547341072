package linuxbackend

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/primitives"
)

// ExecSubcommand is the hidden argv[0] hand-off for the nsenter-equivalent
// helper: `<self> __containust_exec <pid> <argv...>`.
const ExecSubcommand = "__containust_exec"

// Exec looks up the recorded init PID and re-execs the calling binary as
// a helper that joins the target's {mount, uts, ipc, net, pid} namespaces
// before running argv inside them.
func (b *Backend) Exec(ctx context.Context, id string, argv []string, stdout, stderr io.Writer) (backend.ExecResult, error) {
	entry, err := b.states.Get(id)
	if err != nil {
		return backend.ExecResult{}, err
	}
	if entry == nil || entry.PID == nil {
		return backend.ExecResult{}, primitives.NewNotFound("container", id)
	}

	self, err := selfExecutable()
	if err != nil {
		return backend.ExecResult{}, err
	}

	args := append([]string{ExecSubcommand, strconv.Itoa(*entry.PID)}, argv...)
	cmd := exec.CommandContext(ctx, self, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &outBuf)
	cmd.Stderr = io.MultiWriter(stderr, &errBuf)

	runErr := cmd.Run()
	result := backend.ExecResult{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if runErr != nil {
		return result, primitives.NewIo(self, "running exec helper", runErr)
	}
	result.ExitCode = cmd.ProcessState.ExitCode()
	return result, nil
}
