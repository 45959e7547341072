package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/importer"
	"github.com/containust/containust/internal/primitives"
)

// loadComposition parses compositionPath and recursively flattens every
// Import into the returned Composition (SPEC_FULL §4.16): a remote import
// (git+ssh/git+https/https) is cloned through the importer package into
// projectDir/imports, a local import is read relative to the importing
// file's directory. An import declared `as alias` has its components and
// connections renamed under an "alias." prefix so two imports cannot
// collide; an unaliased import is merged flat, leaving name collisions
// for Validate to catch.
func loadComposition(ctx context.Context, compositionPath, projectDir string) (*ctst.Composition, error) {
	fetcher := importer.NewFetcher(projectDir)
	return loadOne(ctx, fetcher, compositionPath, make(map[string]bool))
}

func loadOne(ctx context.Context, fetcher *importer.Fetcher, path string, visiting map[string]bool) (*ctst.Composition, error) {
	canon, err := primitives.ResolveCanonical(path)
	if err != nil {
		return nil, err
	}
	if visiting[canon] {
		return nil, primitives.NewConfig("import cycle detected at %q", canon)
	}
	visiting[canon] = true
	defer delete(visiting, canon)

	src, err := os.ReadFile(canon)
	if err != nil {
		return nil, primitives.NewIo(canon, "reading composition file", err)
	}
	comp, err := ctst.Parse(string(src))
	if err != nil {
		return nil, err
	}

	merged := &ctst.Composition{
		Components:  append([]ctst.Component(nil), comp.Components...),
		Connections: append([]ctst.Connection(nil), comp.Connections...),
	}

	for _, imp := range comp.Imports {
		childPath := imp.Source
		if ctst.IsRemoteImport(imp.Source) {
			childPath, err = fetcher.Fetch(ctx, imp.Source)
		} else if !filepath.IsAbs(childPath) {
			childPath = filepath.Join(filepath.Dir(canon), childPath)
		}
		if err != nil {
			return nil, err
		}

		child, err := loadOne(ctx, fetcher, childPath, visiting)
		if err != nil {
			return nil, err
		}
		if imp.Alias != "" {
			prefixComposition(child, imp.Alias)
		}
		merged.Components = append(merged.Components, child.Components...)
		merged.Connections = append(merged.Connections, child.Connections...)
	}

	if err := ctst.Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// prefixComposition renames every component in comp to "alias.name",
// rewriting connection endpoints to match so an aliased import's internal
// wiring is preserved after the rename.
func prefixComposition(comp *ctst.Composition, alias string) {
	rename := make(map[string]string, len(comp.Components))
	for i := range comp.Components {
		old := comp.Components[i].Name
		comp.Components[i].Name = alias + "." + old
		rename[old] = comp.Components[i].Name
	}
	for i := range comp.Connections {
		if n, ok := rename[comp.Connections[i].From]; ok {
			comp.Connections[i].From = n
		}
		if n, ok := rename[comp.Connections[i].To]; ok {
			comp.Connections[i].To = n
		}
	}
}
