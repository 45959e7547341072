package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/containust/containust/internal/primitives"
)

// spec §8 property 8: register then list surfaces the entry; remove(id)
// removes only the matching entry; remove of an absent id yields NotFound.
func TestCatalogCRUD(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "images", "catalog.json"))

	e1 := Entry{ID: "sha256:aaa", Name: "api"}
	e2 := Entry{ID: "sha256:bbb", Name: "db"}
	if err := c.Register(e1); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(e2); err != nil {
		t.Fatal(err)
	}

	list, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %v", list)
	}

	if err := c.Remove("sha256:aaa"); err != nil {
		t.Fatal(err)
	}
	list, _ = c.List()
	if len(list) != 1 || list[0].ID != "sha256:bbb" {
		t.Fatalf("expected only bbb to remain, got %+v", list)
	}

	err = c.Remove("sha256:missing")
	var pe *primitives.Error
	if err == nil {
		t.Fatal("expected NotFound error removing absent id")
	}
	if !errors.As(err, &pe) || pe.Kind != primitives.KindNotFound {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestCatalogRegisterReplacesByID(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "catalog.json"))
	if err := c.Register(Entry{ID: "x", Name: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(Entry{ID: "x", Name: "second"}); err != nil {
		t.Fatal(err)
	}
	list, _ := c.List()
	if len(list) != 1 || list[0].Name != "second" {
		t.Fatalf("expected replaced entry, got %+v", list)
	}
}
