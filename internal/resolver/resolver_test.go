package resolver

import (
	"testing"

	"github.com/containust/containust/internal/ctst"
)

func findEnv(rs []Resolved, name string) []ctst.EnvVar {
	for _, r := range rs {
		if r.Name == name {
			return r.Env
		}
	}
	return nil
}

func envValue(env []ctst.EnvVar, key string) (string, bool) {
	for _, e := range env {
		if e.Name == key {
			return e.Value, true
		}
	}
	return "", false
}

// S2: web and database (port 5432), connection web -> database. The
// resolved web component has environment containing DATABASE_HOST=database
// and DATABASE_PORT=5432.
func TestScenarioS2AutoWire(t *testing.T) {
	port := uint16(5432)
	comp := &ctst.Composition{
		Components: []ctst.Component{
			{Name: "web", Image: "web:latest"},
			{Name: "database", Image: "db:latest", Port: &port},
		},
		Connections: []ctst.Connection{{From: "web", To: "database"}},
	}
	resolved := Resolve(comp)
	webEnv := findEnv(resolved, "web")
	if v, ok := envValue(webEnv, "DATABASE_HOST"); !ok || v != "database" {
		t.Errorf("DATABASE_HOST = %q, %v", v, ok)
	}
	if v, ok := envValue(webEnv, "DATABASE_PORT"); !ok || v != "5432" {
		t.Errorf("DATABASE_PORT = %q, %v", v, ok)
	}
}

// Resolver contract: no port on target means only HOST is appended, and
// pre-existing env is retained verbatim.
func TestResolverNoPortAndExistingEnvRetained(t *testing.T) {
	comp := &ctst.Composition{
		Components: []ctst.Component{
			{Name: "a", Image: "a:latest", Env: []ctst.EnvVar{{Name: "EXISTING", Value: "1"}}},
			{Name: "b", Image: "b:latest"},
		},
		Connections: []ctst.Connection{{From: "a", To: "b"}},
	}
	resolved := Resolve(comp)
	aEnv := findEnv(resolved, "a")
	if len(aEnv) != 2 {
		t.Fatalf("expected 2 env entries (existing + HOST), got %v", aEnv)
	}
	if aEnv[0].Name != "EXISTING" || aEnv[0].Value != "1" {
		t.Errorf("pre-existing env not retained verbatim first: %v", aEnv)
	}
	if v, ok := envValue(aEnv, "B_HOST"); !ok || v != "b" {
		t.Errorf("B_HOST = %q, %v", v, ok)
	}
	if _, ok := envValue(aEnv, "B_PORT"); ok {
		t.Error("B_PORT should not be present when target has no port")
	}
}

func TestResolverMultipleConnectionsOrdered(t *testing.T) {
	dbPort := uint16(5432)
	cachePort := uint16(6379)
	comp := &ctst.Composition{
		Components: []ctst.Component{
			{Name: "api", Image: "api:latest"},
			{Name: "db", Image: "db:latest", Port: &dbPort},
			{Name: "cache", Image: "cache:latest", Port: &cachePort},
		},
		Connections: []ctst.Connection{
			{From: "api", To: "db"},
			{From: "api", To: "cache"},
		},
	}
	resolved := Resolve(comp)
	apiEnv := findEnv(resolved, "api")
	want := []string{"DB_HOST", "DB_PORT", "CACHE_HOST", "CACHE_PORT"}
	if len(apiEnv) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), apiEnv)
	}
	for i, name := range want {
		if apiEnv[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, apiEnv[i].Name, name)
		}
	}
}
