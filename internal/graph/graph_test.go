package graph

import (
	"strings"
	"testing"
)

func TestEmptyGraph(t *testing.T) {
	g := New()
	order, err := g.ResolveOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("expected empty order, got %v", order)
	}
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

// S1: three components api, db, cache; connections api->db, api->cache.
// The resolved deploy order places db and cache before api.
func TestScenarioS1ParseOrder(t *testing.T) {
	g := New()
	g.AddComponent("api")
	g.AddComponent("db")
	g.AddComponent("cache")
	g.AddDependency("api", "db")
	g.AddDependency("api", "cache")

	order, err := g.ResolveOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 nodes, got %v", order)
	}
	if indexOf(order, "db") >= indexOf(order, "api") {
		t.Errorf("db should precede api in %v", order)
	}
	if indexOf(order, "cache") >= indexOf(order, "api") {
		t.Errorf("cache should precede api in %v", order)
	}
}

// S3: components a, b, c with connections a->b, b->c, c->a. resolve_order
// returns a Config error whose message contains "cyclic."
func TestScenarioS3CycleRejection(t *testing.T) {
	g := New()
	g.AddComponent("a")
	g.AddComponent("b")
	g.AddComponent("c")
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("c", "a")

	_, err := g.ResolveOrder()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "cyclic") {
		t.Errorf("error should contain 'cyclic', got: %v", err)
	}
}

func TestDanglingEdgeIgnored(t *testing.T) {
	g := New()
	g.AddComponent("a")
	// "b" was never added as a component; the edge must be silently dropped.
	g.AddDependency("a", "b")
	order, err := g.ResolveOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("expected [a], got %v", order)
	}
}

func TestAcyclicLargerGraph(t *testing.T) {
	g := New()
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		g.AddComponent(n)
	}
	// a depends on b and c; b depends on d; c depends on d; d depends on e.
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "d")
	g.AddDependency("c", "d")
	g.AddDependency("d", "e")

	order, err := g.ResolveOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("expected every node exactly once, got %v", order)
	}
	seen := map[string]bool{}
	for _, n := range order {
		if seen[n] {
			t.Fatalf("node %q appeared more than once in %v", n, order)
		}
		seen[n] = true
	}
	for _, pair := range [][2]string{{"e", "d"}, {"d", "b"}, {"d", "c"}, {"b", "a"}, {"c", "a"}} {
		if indexOf(order, pair[0]) >= indexOf(order, pair[1]) {
			t.Errorf("%q should precede %q in %v", pair[0], pair[1], order)
		}
	}
}
