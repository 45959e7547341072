// Package vmbackend implements the VM-backed fallback container backend
// (spec §4.10): a QEMU-booted Alpine Linux guest running a small Go
// agent that performs the same create/start/stop/exec/logs/list/remove
// operations the Linux backend performs natively, reached over a
// JSON-RPC link on a host-forwarded TCP port.
package vmbackend

import (
	"context"
	"io"
	"os/exec"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/primitives"
)

// Backend implements backend.Backend by proxying every operation to the
// guest agent running inside a lazily-booted QEMU VM.
type Backend struct {
	vm          *vmInstance
	client      *Client
	agentBinary []byte
	offline     bool
}

// NewBackend constructs a VM backend. agentBinary is the compiled guest
// agent (cmd/containust-agent, built for the host/guest architecture)
// embedded into the customized initramfs on first boot.
func NewBackend(agentBinary []byte, offline bool) *Backend {
	return &Backend{
		vm:          newVMInstance(),
		client:      NewClient(agentPort),
		agentBinary: agentBinary,
		offline:     offline,
	}
}

// IsAvailable reports whether QEMU is installed for this architecture;
// the engine falls back to this backend only when the Linux native
// backend is unavailable (spec §9).
func (b *Backend) IsAvailable() bool {
	_, err := exec.LookPath(qemuBinaryName())
	return err == nil
}

// rpcContainerConfig is the wire shape of backend.ContainerConfig sent
// to the guest's create method; it flattens ctst.EnvVar into plain
// key/value pairs since the guest has no dependency on the ctst package.
type rpcContainerConfig struct {
	Name      string            `json:"name"`
	Image     string            `json:"image"`
	Command   []string          `json:"command"`
	Env       map[string]string `json:"env"`
	MemoryB   uint64            `json:"memory_bytes"`
	CPUWeight uint32            `json:"cpu_weight"`
	Readonly  bool              `json:"readonly"`
	Volumes   []string          `json:"volumes"`
	Port      *uint16           `json:"port,omitempty"`
}

func toRPCConfig(cfg backend.ContainerConfig) rpcContainerConfig {
	env := make(map[string]string, len(cfg.Env))
	for _, e := range cfg.Env {
		env[e.Name] = e.Value
	}
	return rpcContainerConfig{
		Name:      cfg.Name,
		Image:     cfg.Image,
		Command:   cfg.Command,
		Env:       env,
		MemoryB:   cfg.MemoryB,
		CPUWeight: cfg.CPUWeight,
		Readonly:  cfg.Readonly,
		Volumes:   cfg.Volumes,
		Port:      cfg.Port,
	}
}

// ensureVM boots the VM if needed, forwarding cfg's port (if any)
// alongside the fixed agent port.
func (b *Backend) ensureVM(ctx context.Context, ports []int) error {
	assets, err := ensureAssets(ctx, b.agentBinary, b.offline)
	if err != nil {
		return err
	}
	return b.vm.ensureRunning(ctx, assets, ports)
}

// Create boots the VM if needed and asks the guest agent to create the
// container, returning the id it assigns.
func (b *Backend) Create(ctx context.Context, cfg backend.ContainerConfig) (string, error) {
	var ports []int
	if cfg.Port != nil {
		ports = append(ports, int(*cfg.Port))
	}
	if err := b.ensureVM(ctx, ports); err != nil {
		return "", err
	}
	var id string
	if err := b.client.Call("create", toRPCConfig(cfg), &id); err != nil {
		return "", err
	}
	return id, nil
}

// Start asks the guest agent to start container id.
func (b *Backend) Start(ctx context.Context, id string) error {
	return b.client.Call("start", map[string]string{"id": id}, nil)
}

// Stop asks the guest agent to stop container id.
func (b *Backend) Stop(ctx context.Context, id string) error {
	return b.client.Call("stop", map[string]string{"id": id}, nil)
}

type rpcExecParams struct {
	ID   string   `json:"id"`
	Argv []string `json:"argv"`
}

type rpcExecResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Exec asks the guest agent to run argv inside container id, then
// copies its captured output to stdout/stderr.
func (b *Backend) Exec(ctx context.Context, id string, argv []string, stdout, stderr io.Writer) (backend.ExecResult, error) {
	var res rpcExecResult
	if err := b.client.Call("exec", rpcExecParams{ID: id, Argv: argv}, &res); err != nil {
		return backend.ExecResult{}, err
	}
	if _, err := io.WriteString(stdout, res.Stdout); err != nil {
		return backend.ExecResult{}, primitives.NewIo("", "writing exec stdout", err)
	}
	if _, err := io.WriteString(stderr, res.Stderr); err != nil {
		return backend.ExecResult{}, primitives.NewIo("", "writing exec stderr", err)
	}
	return backend.ExecResult{
		Stdout:   []byte(res.Stdout),
		Stderr:   []byte(res.Stderr),
		ExitCode: res.ExitCode,
	}, nil
}

// Logs asks the guest agent for container id's accumulated log text.
func (b *Backend) Logs(ctx context.Context, id string) (string, error) {
	var logs string
	if err := b.client.Call("logs", map[string]string{"id": id}, &logs); err != nil {
		return "", err
	}
	return logs, nil
}

type rpcInfo struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	State string  `json:"state"`
	PID   *int    `json:"pid"`
	Image string  `json:"image"`
	Port  *uint16 `json:"port,omitempty"`
}

// List asks the guest agent for every container it knows about.
func (b *Backend) List(ctx context.Context) ([]backend.Info, error) {
	var entries []rpcInfo
	if err := b.client.Call("list", nil, &entries); err != nil {
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
			Port:  e.Port,
		})
	}
	return out, nil
}

// Remove asks the guest agent to remove container id.
func (b *Backend) Remove(ctx context.Context, id string) error {
	return b.client.Call("remove", map[string]string{"id": id}, nil)
}

var _ backend.Backend = (*Backend)(nil)
