// Package backend defines the platform-agnostic container lifecycle
// surface implemented by the Linux native backend and the VM-proxied
// backend.
package backend

import (
	"context"
	"io"

	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/primitives"
)

// ContainerConfig is everything a backend needs to create a container.
type ContainerConfig struct {
	Name      string
	Image     string
	Command   []string
	Env       []ctst.EnvVar
	MemoryB   uint64
	CPUWeight uint32
	Readonly  bool
	Volumes   []string
	Port      *uint16
}

// ExecResult carries the captured output and exit code of an exec call.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Info is the backend's view of a container, independent of the
// persisted state entry's JSON shape.
type Info struct {
	ID    string
	Name  string
	State primitives.ContainerState
	PID   *int
	Image string
	Port  *uint16
}

// Backend is the closed capability interface over the two platform
// variants: Linux native and Guest-VM-proxied.
type Backend interface {
	// IsAvailable reports whether this backend can run on the current host.
	IsAvailable() bool

	Create(ctx context.Context, cfg ContainerConfig) (string, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Exec(ctx context.Context, id string, argv []string, stdout, stderr io.Writer) (ExecResult, error)
	Logs(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]Info, error)
	Remove(ctx context.Context, id string) error
}
