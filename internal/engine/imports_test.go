package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func TestLoadCompositionFlattensLocalImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "db.ctst", `component db {
  image = "postgres:16"
}
`)
	root := writeFile(t, dir, "main.ctst", `import "db.ctst"

component web {
  image = "web:latest"
}

connect web -> db
`)

	comp, err := loadComposition(context.Background(), root, dir)
	if err != nil {
		t.Fatalf("loadComposition: %v", err)
	}
	if len(comp.Components) != 2 {
		t.Fatalf("expected 2 components, got %d: %+v", len(comp.Components), comp.Components)
	}
	names := map[string]bool{}
	for _, c := range comp.Components {
		names[c.Name] = true
	}
	if !names["db"] || !names["web"] {
		t.Fatalf("expected db and web components, got %+v", names)
	}
	if len(comp.Connections) != 1 || comp.Connections[0].From != "web" || comp.Connections[0].To != "db" {
		t.Fatalf("unexpected connections: %+v", comp.Connections)
	}
}

func TestLoadCompositionAliasPrefixesImportedNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.ctst", `component cache {
  image = "redis:7"
}
`)
	root := writeFile(t, dir, "main.ctst", `import "shared.ctst" as infra

component web {
  image = "web:latest"
}

connect web -> infra.cache
`)

	comp, err := loadComposition(context.Background(), root, dir)
	if err != nil {
		t.Fatalf("loadComposition: %v", err)
	}
	names := map[string]bool{}
	for _, c := range comp.Components {
		names[c.Name] = true
	}
	if !names["infra.cache"] {
		t.Fatalf("expected aliased component %q, got %+v", "infra.cache", names)
	}
	if names["cache"] {
		t.Fatalf("unaliased name %q should not survive an aliased import", "cache")
	}
}

func TestLoadCompositionDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ctst", `import "b.ctst"

component ca {
  image = "a:latest"
}
`)
	root := writeFile(t, dir, "b.ctst", `import "a.ctst"

component cb {
  image = "b:latest"
}
`)

	if _, err := loadComposition(context.Background(), root, dir); err == nil {
		t.Fatal("expected a cycle error, got nil")
	}
}
