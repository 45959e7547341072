package linuxbackend

import (
	"encoding/json"
	"os"

	"github.com/containust/containust/internal/isolation"
	"github.com/containust/containust/internal/primitives"
)

// RunInit is the entry point the re-exec'd init process runs: it finishes
// configuring the container from inside its own namespaces (cgroup join,
// overlay mount, pivot_root, mounts, capability drop, environment) and
// then execs the component's command, replacing itself. It only returns
// on error; success ends with syscall.Exec never returning.
func RunInit(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return primitives.NewIo(configPath, "reading container init config", err)
	}
	var cfg childConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return primitives.NewSerialization("decoding container init config", err)
	}

	cg := isolation.NewCgroup(cfg.CgroupApp, cfg.ContainerID)
	if err := cg.Create(); err != nil {
		return err
	}
	limits := primitives.ResourceLimits{
		MemoryBytes: cfg.MemoryBytes,
		CPUWeight:   cfg.CPUWeight,
		IOWeight:    cfg.IOWeight,
	}
	if err := cg.ApplyLimits(limits); err != nil {
		cg.Destroy()
		return err
	}
	if err := cg.AddProcess(os.Getpid()); err != nil {
		cg.Destroy()
		return err
	}

	if err := runInitRemainder(cfg); err != nil {
		cg.Destroy()
		return err
	}

	// unreachable on success: runInitRemainder execs on the happy path.
	cg.Destroy()
	return nil
}
