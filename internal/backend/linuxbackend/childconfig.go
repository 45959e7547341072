package linuxbackend

import "github.com/containust/containust/internal/isolation"

// childConfig is handed to the re-exec'd init process as a JSON file; it
// carries everything needed to finish configuring the container from
// inside its own namespaces before exec'ing the component's command.
type childConfig struct {
	ContainerID string
	CgroupApp   string
	MemoryBytes *uint64
	CPUWeight   *uint32
	IOWeight    *uint32

	RootfsLower []string
	RootfsUpper string
	RootfsWork  string
	RootfsMerge string

	Hostname string
	Command  []string
	Env      []string
	Readonly bool

	KeepCaps []uint
}

// namespaceConfig is the fixed set of namespaces every containust
// container unshares; user namespace isolation is left to the host's
// own privilege model rather than attempted here (no uid/gid mapping
// scheme is specified), mirroring a rootful runtime.
func namespaceConfig() isolation.NamespaceConfig {
	return isolation.NamespaceConfig{
		Mount: true,
		UTS:   true,
		IPC:   true,
		PID:   true,
		Net:   true,
	}
}
