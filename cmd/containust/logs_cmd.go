package main

import (
	"context"
	"fmt"
	"os"

	"github.com/containust/containust/internal/logstore"
)

// LogsCmd prints a container's captured stdout/stderr, or follows it
// (spec §4.8's polling-based Follow) when --follow is given.
type LogsCmd struct {
	ID     string `arg:"" help:"ID of the container whose logs to show"`
	Follow bool   `short:"f" help:"stream new log lines as they are appended"`
}

func (c *LogsCmd) Run(cctx *Context) error {
	ctx := context.Background()

	if !c.Follow {
		e, err := newEngine(cctx)
		if err != nil {
			return err
		}
		out, err := e.Logs(ctx, c.ID)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	dir, err := projectDataRoot(cctx)
	if err != nil {
		return err
	}
	store := logstore.New(dir)

	existing, err := store.Read(c.ID)
	if err != nil {
		return err
	}
	fmt.Print(existing)

	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		errCh <- store.Follow(ctx, c.ID, lines)
	}()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return <-errCh
			}
			fmt.Fprintln(os.Stdout, line)
		case err := <-errCh:
			return err
		}
	}
}
