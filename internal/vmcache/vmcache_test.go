package vmcache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRegisterIdempotentAndOfflineGate(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "assets.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer c.Close()

	if err := c.RequireOffline("vmlinuz-virt"); err == nil {
		t.Fatal("expected offline gate to fail for uncached asset")
	}

	asset := Asset{
		Name:         "vmlinuz-virt",
		Architecture: "x86_64",
		SHA256:       "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		SourceURL:    "https://dl-cdn.alpinelinux.org/alpine/v3.20/releases/x86_64/netboot/vmlinuz-virt",
		DownloadedAt: time.Now(),
	}
	if err := c.Register(asset); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	// Idempotent: registering the same asset again must not error or duplicate.
	if err := c.Register(asset); err != nil {
		t.Fatalf("second Register error: %v", err)
	}

	got, err := c.Get("vmlinuz-virt")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got.SHA256 != asset.SHA256 {
		t.Fatalf("got %+v, want matching asset", got)
	}

	if err := c.RequireOffline("vmlinuz-virt"); err != nil {
		t.Errorf("expected offline gate to pass for cached asset: %v", err)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "assets.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer c.Close()

	got, err := c.Get("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
