package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/containust/containust/internal/primitives"
)

// PsCmd lists containers known to the project's state store, mirroring
// the teacher's ls_cmd.go tabwriter layout.
type PsCmd struct {
	All bool `short:"a" help:"include stopped and failed containers"`
}

func (c *PsCmd) Run(cctx *Context) error {
	ctx := context.Background()

	e, err := newEngine(cctx)
	if err != nil {
		return err
	}
	infos, err := e.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tPID\tIMAGE\tPORT\t")
	for _, info := range infos {
		if !c.All && info.State.Terminal() {
			continue
		}
		pid := "-"
		if info.PID != nil {
			pid = fmt.Sprintf("%d", *info.PID)
		}
		port := "-"
		if info.Port != nil {
			port = fmt.Sprintf("%d", *info.Port)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", info.ID, info.Name, stateLabel(info.State), pid, info.Image, port)
	}
	return w.Flush()
}

func stateLabel(s primitives.ContainerState) string {
	return string(s)
}
