package main

import (
	"fmt"
	"os"

	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/primitives"
)

// BuildCmd parses and statically validates a composition file without
// touching any backend, the way `sand new` dry-runs a template before
// committing to disk.
type BuildCmd struct{}

func (c *BuildCmd) Run(cctx *Context) error {
	src, err := os.ReadFile(cctx.CompositionFile)
	if err != nil {
		return primitives.NewIo(cctx.CompositionFile, "reading composition file", err)
	}
	comp, err := ctst.ParseAndValidate(string(src))
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d component(s), %d connection(s), %d import(s)\n",
		cctx.CompositionFile, len(comp.Components), len(comp.Connections), len(comp.Imports))
	for _, c := range comp.Components {
		img := c.Image
		if img == "" {
			img = fmt.Sprintf("(from template %q)", c.TemplateParent)
		}
		fmt.Printf("  %-20s %s\n", c.Name, img)
	}
	return nil
}
