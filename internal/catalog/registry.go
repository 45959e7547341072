package catalog

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"

	"github.com/containust/containust/internal/primitives"
)

// Resolver turns an image URI into a catalog Entry by inspecting the
// remote registry manifest, without downloading layer contents. This is
// the concrete counterpart to the teacher's ImagesSvc.List/Inspect, which
// shelled out to an external CLI; here the registry client is a real
// library, matching the teacher's direct go-containerregistry dependency.
type Resolver struct{}

// NewResolver returns a Resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve fetches the manifest for imageURI and builds a catalog Entry with
// its layer digests (bottom-to-top) and total compressed size.
func (r *Resolver) Resolve(imageURI string) (Entry, error) {
	ref, err := name.ParseReference(imageURI)
	if err != nil {
		return Entry{}, primitives.NewConfig("invalid image reference %q: %v", imageURI, err)
	}
	img, err := remote.Image(ref)
	if err != nil {
		return Entry{}, primitives.NewIo(imageURI, "fetching remote image manifest", err)
	}
	layers, err := img.Layers()
	if err != nil {
		return Entry{}, primitives.NewIo(imageURI, "enumerating image layers", err)
	}
	digest, err := img.Digest()
	if err != nil {
		return Entry{}, primitives.NewIo(imageURI, "computing image digest", err)
	}

	var layerHashes []string
	var total int64
	for _, l := range layers {
		d, err := l.Digest()
		if err != nil {
			return Entry{}, primitives.NewIo(imageURI, "computing layer digest", err)
		}
		layerHashes = append(layerHashes, d.String())
		size, err := l.Size()
		if err != nil {
			return Entry{}, primitives.NewIo(imageURI, "computing layer size", err)
		}
		total += size
	}

	return Entry{
		ID:        digest.String(),
		Name:      ref.Name(),
		Source:    imageURI,
		Layers:    layerHashes,
		Bytes:     total,
		CreatedAt: time.Now(),
	}, nil
}

// Pull downloads imageURI's layers and extracts them, bottom-to-top, into
// destDir. Unlike Resolve, this materializes layer content onto disk; it
// backs the Linux backend's rootfs preparation when no cached extraction
// already exists (the `images --pull` CLI verb uses Resolve, not Pull).
func (r *Resolver) Pull(imageURI, destDir string) error {
	ref, err := name.ParseReference(imageURI)
	if err != nil {
		return primitives.NewConfig("invalid image reference %q: %v", imageURI, err)
	}
	img, err := remote.Image(ref)
	if err != nil {
		return primitives.NewIo(imageURI, "fetching remote image manifest", err)
	}
	layers, err := img.Layers()
	if err != nil {
		return primitives.NewIo(imageURI, "enumerating image layers", err)
	}
	if err := primitives.EnsureDir(destDir); err != nil {
		return err
	}
	for _, l := range layers {
		rc, err := l.Uncompressed()
		if err != nil {
			return primitives.NewIo(imageURI, "opening layer contents", err)
		}
		if err := extractTar(rc, destDir); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	return nil
}

func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return primitives.NewIo(destDir, "reading layer tar stream", err)
		}
		target := filepath.Join(destDir, filepath.Clean("/"+hdr.Name))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return primitives.NewIo(target, "creating layer directory", err)
			}
		case tar.TypeReg:
			if err := primitives.EnsureDir(filepath.Dir(target)); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return primitives.NewIo(target, "creating layer file", err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return primitives.NewIo(target, "writing layer file", err)
			}
			f.Close()
		case tar.TypeSymlink:
			_ = os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return primitives.NewIo(target, "creating layer symlink", err)
			}
		}
	}
}

// SyntheticLocal builds a single-layer catalog entry for a local image URI
// that is not resolvable against a remote registry (e.g. a bare path used
// in offline/test compositions).
func SyntheticLocal(imageURI string, digest primitives.Digest, bytes int64) Entry {
	return Entry{
		ID:        digest.String(),
		Name:      imageURI,
		Source:    imageURI,
		Layers:    []string{digest.String()},
		Bytes:     bytes,
		CreatedAt: time.Now(),
	}
}
