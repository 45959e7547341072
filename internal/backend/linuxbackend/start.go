package linuxbackend

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/primitives"
)

// InitSubcommand is the hidden argv[0] hand-off the CLI's main() must
// recognize and route to RunInit before doing anything else: this binary
// re-execs itself to become the container's PID 1, the same way it would
// exec the component's own command once configuration finishes.
const InitSubcommand = "__containust_init"

// Start prepares the rootfs, re-execs the calling binary into a fresh
// set of namespaces, and hands the child a JSON config describing the
// rest of the setup it must perform before exec'ing the component's
// command. The parent records the child's PID and transitions the entry
// to Running; it does not wait for the child, which becomes the
// container's long-running init process.
func (b *Backend) Start(ctx context.Context, id string) error {
	entry, err := b.states.Get(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return primitives.NewNotFound("container", id)
	}
	cfg, ok := b.pending[id]
	if !ok {
		return primitives.NewConfig("no recorded configuration for container %q", id)
	}
	delete(b.pending, id)

	rootfs, err := b.prepareRootfs(id, cfg.Image)
	if err != nil {
		return err
	}

	child := childConfig{
		ContainerID: id,
		CgroupApp:   "containust",
		MemoryBytes: zeroToNil(cfg.MemoryB),
		CPUWeight:   zeroToNilU32(cfg.CPUWeight),
		RootfsLower: rootfs.Lower,
		RootfsUpper: rootfs.Upper,
		RootfsWork:  rootfs.Work,
		RootfsMerge: rootfs.Merge,
		Hostname:    cfg.Name,
		Command:     cfg.Command,
		Env:         envStrings(cfg.Env),
		Readonly:    cfg.Readonly,
		KeepCaps:    defaultKeepCaps(),
	}

	configPath := filepath.Join(b.dataRoot, "containers", id, "init-config.json")
	if err := primitives.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}
	data, err := json.Marshal(child)
	if err != nil {
		return primitives.NewSerialization("encoding container init config", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return primitives.NewIo(configPath, "writing container init config", err)
	}

	self, err := selfExecutable()
	if err != nil {
		return err
	}

	cmd := exec.Command(self, InitSubcommand, configPath)
	applyNamespaceCloneFlags(cmd)
	if err := cmd.Start(); err != nil {
		return primitives.NewPermissionDenied("start container init process", err)
	}

	pid := cmd.Process.Pid
	entry.PID = &pid
	entry.State = string(primitives.StateRunning)
	return b.states.Upsert(*entry)
}

func zeroToNil(v uint64) *uint64 {
	if v == 0 {
		return nil
	}
	return &v
}

func zeroToNilU32(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return &v
}

func selfExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", primitives.NewIo("", "resolving own executable path", err)
	}
	return self, nil
}

func envStrings(env []ctst.EnvVar) []string {
	out := make([]string, 0, len(env))
	for _, e := range env {
		out = append(out, e.Name+"="+e.Value)
	}
	return out
}

// defaultKeepCaps is the baseline capability set left to a container
// process: enough to bind low ports and chown files it creates, nothing
// that reaches outside its own namespaces.
func defaultKeepCaps() []uint {
	const (
		capChown          = 0
		capDacOverride    = 1
		capFownerCap      = 3
		capKill           = 5
		capSetgid         = 6
		capSetuid         = 7
		capNetBindService = 10
	)
	return []uint{capChown, capDacOverride, capFownerCap, capKill, capSetgid, capSetuid, capNetBindService}
}
