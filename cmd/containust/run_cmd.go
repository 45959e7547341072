package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// RunCmd deploys a composition and, unless --detach is given, blocks until
// SIGINT/SIGTERM, at which point it stops every container it started
// (spec §5's "engine's SIGINT handler flips a boolean checked on a 250ms
// polling loop; on trip, synchronously stops all containers").
type RunCmd struct {
	Detach bool `short:"d" help:"deploy and return immediately instead of waiting for an interrupt"`
}

func (c *RunCmd) Run(cctx *Context) error {
	ctx := context.Background()

	e, err := newEngine(cctx)
	if err != nil {
		return err
	}

	deployed, err := e.Deploy(ctx)
	if err != nil {
		return err
	}
	for _, d := range deployed {
		fmt.Printf("%s\t%s\n", d.Name, d.ID)
	}

	if c.Detach {
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	stopping := false
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			stopping = true
		case <-ticker.C:
			if !stopping {
				continue
			}
			slog.InfoContext(ctx, "run: interrupt received, stopping all containers")
			return e.StopAll(ctx)
		}
	}
}
