// Package linuxbackend implements the native Linux container backend
// (spec §4.9): namespaces, cgroups v2, overlay, pivot_root, and
// capability dropping, driven over the isolation primitives.
package linuxbackend

import (
	"context"
	"path/filepath"
	"runtime"
	"time"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/logstore"
	"github.com/containust/containust/internal/primitives"
	"github.com/containust/containust/internal/state"
)

// Backend implements backend.Backend over the host's own namespaces,
// cgroups, and filesystem.
type Backend struct {
	dataRoot string
	states   *state.Store
	logs     *logstore.Store

	// pending carries each container's ContainerConfig from Create to
	// Start, since the backend interface's Start takes only an id (spec
	// §9's capability interface has no config parameter there).
	pending map[string]backend.ContainerConfig
}

// NewBackend roots all container state and logs under dataRoot.
func NewBackend(dataRoot string) *Backend {
	return &Backend{
		dataRoot: dataRoot,
		states:   state.New(stateFilePath(dataRoot)),
		logs:     logstore.New(dataRoot),
		pending:  map[string]backend.ContainerConfig{},
	}
}

func stateFilePath(dataRoot string) string {
	return filepath.Join(dataRoot, "state", "state.json")
}

// IsAvailable reports whether this backend can run on the current host.
func (b *Backend) IsAvailable() bool {
	return runtime.GOOS == "linux"
}

// Create generates an id, persists a Created entry, and returns the id.
func (b *Backend) Create(ctx context.Context, cfg backend.ContainerConfig) (string, error) {
	id, err := primitives.NewContainerID()
	if err != nil {
		return "", err
	}
	entry := state.Entry{
		ID:        string(id),
		Name:      cfg.Name,
		State:     string(primitives.StateCreated),
		PID:       nil,
		Image:     cfg.Image,
		CreatedAt: time.Now(),
	}
	if err := b.states.Upsert(entry); err != nil {
		return "", err
	}
	b.pending[string(id)] = cfg
	return string(id), nil
}

// Logs delegates to the log store.
func (b *Backend) Logs(ctx context.Context, id string) (string, error) {
	return b.logs.Read(id)
}

// List reads the state file.
func (b *Backend) List(ctx context.Context) ([]backend.Info, error) {
	entries, err := b.states.Load()
	if err != nil {
		return nil, err
	}
	out := make([]backend.Info, 0, len(entries))
	for _, e := range entries {
		out = append(out, backend.Info{
			ID:    e.ID,
			Name:  e.Name,
			State: primitives.ContainerState(e.State),
			PID:   e.PID,
			Image: e.Image,
		})
	}
	return out, nil
}

// Remove deletes the container's state entry, rootfs directory, and log
// file.
func (b *Backend) Remove(ctx context.Context, id string) error {
	if err := b.states.Remove(id); err != nil {
		return err
	}
	return removeContainerDirs(b.dataRoot, id)
}
