package linuxbackend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/containust/containust/internal/ctst"
)

func TestEnvStringsFormatsKeyEqualsValue(t *testing.T) {
	env := []ctst.EnvVar{{Name: "A", Value: "1"}, {Name: "B", Value: ""}}
	got := envStrings(env)
	want := []string{"A=1", "B="}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestImageCacheKeyStableAndDistinct(t *testing.T) {
	a := imageCacheKey("docker.io/library/redis:7")
	b := imageCacheKey("docker.io/library/redis:7")
	c := imageCacheKey("docker.io/library/postgres:16")
	if a != b {
		t.Fatal("same image must hash to the same cache key")
	}
	if a == c {
		t.Fatal("distinct images must not collide")
	}
}

func TestDirIsEmpty(t *testing.T) {
	dir := t.TempDir()
	empty, err := dirIsEmpty(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Fatal("freshly created temp dir should be empty")
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty, err = dirIsEmpty(dir)
	if err != nil {
		t.Fatal(err)
	}
	if empty {
		t.Fatal("dir with a file should not report empty")
	}
}

func TestDefaultKeepCapsNoDuplicates(t *testing.T) {
	seen := map[uint]bool{}
	for _, c := range defaultKeepCaps() {
		if seen[c] {
			t.Fatalf("duplicate capability %d in default keep set", c)
		}
		seen[c] = true
	}
}
