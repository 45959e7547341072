package linuxbackend

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/containust/containust/internal/catalog"
	"github.com/containust/containust/internal/primitives"
)

// rootfsPaths are the directories an overlay-backed container rootfs
// needs: upper, work and merged under <dataRoot>/containers/<id>/, and
// the image's extracted layers under <dataRoot>/images/<key>/layers.
type rootfsPaths struct {
	Lower []string
	Upper string
	Work  string
	Merge string
}

func (b *Backend) prepareRootfs(id, image string) (rootfsPaths, error) {
	base := filepath.Join(b.dataRoot, "containers", id)
	paths := rootfsPaths{
		Upper: filepath.Join(base, "upper"),
		Work:  filepath.Join(base, "work"),
		Merge: filepath.Join(base, "merged"),
	}
	for _, d := range []string{paths.Upper, paths.Work, paths.Merge} {
		if err := primitives.EnsureDir(d); err != nil {
			return rootfsPaths{}, err
		}
	}

	layerDir := filepath.Join(b.dataRoot, "images", imageCacheKey(image), "layers")
	if err := primitives.EnsureDir(layerDir); err != nil {
		return rootfsPaths{}, err
	}
	empty, err := dirIsEmpty(layerDir)
	if err != nil {
		return rootfsPaths{}, err
	}
	if empty {
		if err := catalog.NewResolver().Pull(image, layerDir); err != nil {
			// An unresolvable image (e.g. a bare local path used in
			// tests, or --offline) still gets an empty lower; pivot_root
			// then exposes whatever the upper layer writes.
			slog.Warn("image layers unavailable, starting from empty rootfs", "image", image, "err", err)
		}
	}
	paths.Lower = []string{layerDir}
	return paths, nil
}

func imageCacheKey(image string) string {
	d := primitives.HashBytes([]byte(image))
	return d.String()
}

func removeContainerDirs(dataRoot, id string) error {
	base := filepath.Join(dataRoot, "containers", id)
	if err := os.RemoveAll(base); err != nil {
		return primitives.NewIo(base, "removing container directory", err)
	}
	logPath := filepath.Join(dataRoot, "logs", id+".log")
	if err := os.Remove(logPath); err != nil && !os.IsNotExist(err) {
		return primitives.NewIo(logPath, "removing log file", err)
	}
	return nil
}

func dirIsEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, primitives.NewIo(path, "opening directory", err)
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	if err != nil && err != io.EOF {
		return false, primitives.NewIo(path, "reading directory", err)
	}
	return len(names) == 0, nil
}
