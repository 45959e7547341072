package vmbackend

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/containust/containust/internal/primitives"
)

const alpineCDNBase = "https://dl-cdn.alpinelinux.org/alpine/latest-stable/releases"

// alpineArch maps Go's GOARCH to Alpine's release directory/arch naming.
func alpineArch() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64", nil
	case "arm64":
		return "aarch64", nil
	default:
		return "", primitives.NewConfig("unsupported host architecture %q for VM backend", runtime.GOARCH)
	}
}

// cacheDir returns <home>/.containust/cache/vm, creating it if absent.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", primitives.NewIo("", "resolving user home directory", err)
	}
	dir := filepath.Join(home, ".containust", "cache", "vm")
	if err := primitives.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// EnsureBaseAssets downloads the Alpine kernel and base initramfs for the
// host architecture into the cache directory if not already present, and
// returns their paths.
func EnsureBaseAssets(ctx context.Context) (kernelPath, initramfsPath string, err error) {
	dir, err := cacheDir()
	if err != nil {
		return "", "", err
	}
	arch, err := alpineArch()
	if err != nil {
		return "", "", err
	}

	kernelPath = filepath.Join(dir, "vmlinuz")
	initramfsPath = filepath.Join(dir, "initramfs-base.img")

	kernelURL := alpineCDNBase + "/" + arch + "/netboot-" + arch + "/vmlinuz-virt"
	initramfsURL := alpineCDNBase + "/" + arch + "/netboot-" + arch + "/initramfs-virt"

	if err := downloadIfAbsent(ctx, kernelURL, kernelPath); err != nil {
		return "", "", err
	}
	if err := downloadIfAbsent(ctx, initramfsURL, initramfsPath); err != nil {
		return "", "", err
	}
	return kernelPath, initramfsPath, nil
}

func downloadIfAbsent(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return primitives.NewConfig("building VM asset download request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return primitives.NewIo(url, "downloading VM asset", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return primitives.NewConfig("downloading %s: unexpected status %s", url, resp.Status)
	}
	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return primitives.NewIo(tmp, "creating asset download file", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return primitives.NewIo(tmp, "writing asset download", err)
	}
	f.Close()
	if err := os.Rename(tmp, dest); err != nil {
		return primitives.NewIo(dest, "finalizing asset download", err)
	}
	return nil
}
