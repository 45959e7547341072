package vmbackend

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/containust/containust/internal/primitives"
	"github.com/containust/containust/internal/vmcache"
)

// preparedAssets are the two files QEMU boots once the customized
// initramfs has been built: the kernel and the customized initramfs.
type preparedAssets struct {
	Kernel    string
	Initramfs string
}

// ensureAssets downloads the Alpine base assets if missing, builds the
// customized initramfs if missing, and records both in the asset cache
// metadata database. offline skips any network access and instead fails
// fast via RequireOffline.
func ensureAssets(ctx context.Context, agentBinary []byte, offline bool) (preparedAssets, error) {
	dir, err := cacheDir()
	if err != nil {
		return preparedAssets{}, err
	}
	cache, err := vmcache.Open(filepath.Join(dir, "assets.db"))
	if err != nil {
		return preparedAssets{}, err
	}
	defer cache.Close()

	arch, err := alpineArch()
	if err != nil {
		return preparedAssets{}, err
	}

	kernelPath := filepath.Join(dir, "vmlinuz")
	baseInitramfsPath := filepath.Join(dir, "initramfs-base.img")
	customInitramfsPath := filepath.Join(dir, "initramfs-containust.img")
	readmePath := filepath.Join(dir, "README.md")

	if offline {
		if err := cache.RequireOffline("vmlinuz"); err != nil {
			return preparedAssets{}, err
		}
		if err := cache.RequireOffline("initramfs-base.img"); err != nil {
			return preparedAssets{}, err
		}
	} else {
		if _, _, err := EnsureBaseAssets(ctx); err != nil {
			return preparedAssets{}, err
		}
		if err := registerAsset(cache, "vmlinuz", arch, kernelPath); err != nil {
			return preparedAssets{}, err
		}
		if err := registerAsset(cache, "initramfs-base.img", arch, baseInitramfsPath); err != nil {
			return preparedAssets{}, err
		}
	}

	if _, err := os.Stat(customInitramfsPath); os.IsNotExist(err) {
		if err := BuildInitramfs(baseInitramfsPath, customInitramfsPath, agentBinary); err != nil {
			return preparedAssets{}, err
		}
	}
	if err := registerAsset(cache, "initramfs-containust.img", arch, customInitramfsPath); err != nil {
		return preparedAssets{}, err
	}
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		_ = os.WriteFile(readmePath, []byte(vmCacheReadme), 0o644)
	}

	return preparedAssets{Kernel: kernelPath, Initramfs: customInitramfsPath}, nil
}

func registerAsset(cache *vmcache.Cache, name, arch, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return primitives.NewIo(path, "reading asset for provenance hashing", err)
	}
	digest := primitives.HashBytes(data)
	return cache.Register(vmcache.Asset{
		Name:         name,
		Architecture: arch,
		SHA256:       digest.String(),
		SourceURL:    alpineCDNBase,
		DownloadedAt: time.Now(),
	})
}

const vmCacheReadme = `This directory holds assets for containust's VM backend:

- vmlinuz: Alpine Linux virtual kernel
- initramfs-base.img: Alpine's base initramfs
- initramfs-containust.img: initramfs-base.img customized with the containust guest agent

Provenance metadata for each file lives in assets.db alongside them.
`
