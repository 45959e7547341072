package main

import (
	"context"
	"fmt"
	"log/slog"
)

// StopCmd stops one or more containers. The grace-period-then-SIGKILL
// escalation policy lives entirely in the backend (spec §4.9, §9:
// "state transitions are owned by the backend"); --force is accepted as
// a hint a future backend revision could use to skip the grace period,
// but today's backends always honor their own fixed grace period.
type StopCmd struct {
	ID    []string `arg:"" help:"IDs of the containers to stop"`
	Force bool     `help:"reserved for a future faster-teardown path; currently a no-op"`
}

func (c *StopCmd) Run(cctx *Context) error {
	ctx := context.Background()

	e, err := newEngine(cctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, id := range c.ID {
		if err := e.Stop(ctx, id); err != nil {
			slog.ErrorContext(ctx, "stop: failed", "id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Println(id)
	}
	return firstErr
}
