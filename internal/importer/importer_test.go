package importer

import (
	"net/url"
	"testing"
)

func TestSplitFragmentDefaultsToMainCtst(t *testing.T) {
	u, err := url.Parse("git+https://example.com/org/repo")
	if err != nil {
		t.Fatal(err)
	}
	repoURL, ref, entry := splitFragment(u)
	if repoURL != "https://example.com/org/repo" {
		t.Errorf("repoURL = %q", repoURL)
	}
	if ref != "" {
		t.Errorf("ref = %q, want empty", ref)
	}
	if entry != "main.ctst" {
		t.Errorf("entry = %q, want main.ctst", entry)
	}
}

func TestSplitFragmentRefAndPath(t *testing.T) {
	u, err := url.Parse("git+ssh://git@example.com/org/repo#v1.2.0/components/web.ctst")
	if err != nil {
		t.Fatal(err)
	}
	repoURL, ref, entry := splitFragment(u)
	if repoURL != "ssh://git@example.com/org/repo" {
		t.Errorf("repoURL = %q", repoURL)
	}
	if ref != "v1.2.0" {
		t.Errorf("ref = %q, want v1.2.0", ref)
	}
	if entry != "components/web.ctst" {
		t.Errorf("entry = %q, want components/web.ctst", entry)
	}
}

func TestCacheKeyStableAndDistinct(t *testing.T) {
	a := cacheKey("git+https://example.com/a")
	b := cacheKey("git+https://example.com/a")
	c := cacheKey("git+https://example.com/b")
	if a != b {
		t.Error("cacheKey not stable for identical input")
	}
	if a == c {
		t.Error("cacheKey collided for distinct input")
	}
}
