package main

import (
	"fmt"
	"os"

	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/graph"
	"github.com/containust/containust/internal/primitives"
	"github.com/containust/containust/internal/resolver"
)

// PlanCmd parses, validates, topologically orders, and auto-wires a
// composition, printing the deploy order and each component's resolved
// environment without creating anything (spec §4.4, §4.5).
type PlanCmd struct{}

func (c *PlanCmd) Run(cctx *Context) error {
	src, err := os.ReadFile(cctx.CompositionFile)
	if err != nil {
		return primitives.NewIo(cctx.CompositionFile, "reading composition file", err)
	}
	comp, err := ctst.ParseAndValidate(string(src))
	if err != nil {
		return err
	}

	g := graph.New()
	for _, c := range comp.Components {
		g.AddComponent(c.Name)
	}
	for _, conn := range comp.Connections {
		g.AddDependency(conn.From, conn.To)
	}
	order, err := g.ResolveOrder()
	if err != nil {
		return err
	}

	resolved := resolver.Resolve(comp)
	envByName := make(map[string][]ctst.EnvVar, len(resolved))
	for _, r := range resolved {
		envByName[r.Name] = r.Env
	}

	fmt.Println("deploy order:")
	for i, name := range order {
		fmt.Printf("  %d. %s\n", i+1, name)
		for _, e := range envByName[name] {
			fmt.Printf("       %s=%s\n", e.Name, e.Value)
		}
	}
	return nil
}
