// Package agentasset embeds the cross-compiled cmd/containust-agent
// binaries the VM backend injects into its customized initramfs (spec
// §4.10). The two files under bin/ are release artifacts: `go generate`
// below cross-compiles cmd/containust-agent (its own module, see
// DESIGN.md's agent section) for each guest architecture this CLI
// supports before `go build` embeds the results, the same
// build-then-embed shape the teacher uses for its embedded default
// container files (cmd/sand/embeds.go).
package agentasset

import (
	_ "embed"
	"fmt"
	"runtime"
)

//go:generate env GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bin/containust-agent-amd64 ../../containust-agent
//go:generate env GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bin/containust-agent-arm64 ../../containust-agent

//go:embed bin/containust-agent-amd64
var agentAMD64 []byte

//go:embed bin/containust-agent-arm64
var agentARM64 []byte

// ForHostArch returns the embedded guest agent binary matching
// runtime.GOARCH, the architecture QEMU's `-machine`/`-cpu` selection
// (internal/backend/vmbackend) targets for a same-architecture guest.
func ForHostArch() ([]byte, error) {
	switch runtime.GOARCH {
	case "amd64":
		return agentAMD64, nil
	case "arm64":
		return agentARM64, nil
	default:
		return nil, fmt.Errorf("agentasset: no embedded containust-agent binary for architecture %q", runtime.GOARCH)
	}
}
