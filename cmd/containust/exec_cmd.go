package main

import (
	"context"
	"os"
)

// ExecCmd runs a command inside an already-running container and
// propagates its exit code, the way the teacher's exec_cmd.go attaches
// to a sandbox's container.
type ExecCmd struct {
	ID  string   `arg:"" help:"ID of the container to exec into"`
	Arg []string `arg:"" passthrough:"" help:"command and arguments to run"`
}

func (c *ExecCmd) Run(cctx *Context) error {
	ctx := context.Background()

	e, err := newEngine(cctx)
	if err != nil {
		return err
	}

	res, err := e.Exec(ctx, c.ID, c.Arg, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}
