package vmbackend

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/containust/containust/internal/primitives"
)

const (
	agentPort       = 10809
	vmMemoryMiB     = 512
	vmCPUs          = 2
	readyPollEvery  = 500 * time.Millisecond
	readyPollBudget = 60 * time.Second
)

// vmInstance owns the QEMU child process and the set of host ports
// forwarded into the guest; a single mutex guards both, is acquired
// briefly and is never held across blocking I/O (spec §5).
type vmInstance struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	ports    map[int]bool
	bootOnce singleflight.Group
}

func newVMInstance() *vmInstance {
	return &vmInstance{ports: map[int]bool{agentPort: true}}
}

// ensureRunning spawns QEMU if it is not already running, forwarding
// agentPort plus every port in containerPorts, then polls the agent port
// until it answers ping/pong or the overall timeout elapses. Concurrent
// callers collapse onto a single boot via singleflight.
func (v *vmInstance) ensureRunning(ctx context.Context, assets preparedAssets, containerPorts []int) error {
	_, err, _ := v.bootOnce.Do("boot", func() (any, error) {
		v.mu.Lock()
		alreadyRunning := v.cmd != nil
		if !alreadyRunning {
			for _, p := range containerPorts {
				v.ports[p] = true
			}
		}
		v.mu.Unlock()
		if alreadyRunning {
			return nil, nil
		}
		if err := v.boot(ctx, assets); err != nil {
			return nil, err
		}
		return nil, waitForAgentReady(ctx)
	})
	return err
}

func (v *vmInstance) boot(ctx context.Context, assets preparedAssets) error {
	if _, err := exec.LookPath(qemuBinaryName()); err != nil {
		return primitives.NewNotFound("executable", qemuBinaryName()+" (install QEMU to use the VM backend)")
	}

	v.mu.Lock()
	ports := make([]int, 0, len(v.ports))
	for p := range v.ports {
		ports = append(ports, p)
	}
	v.mu.Unlock()

	args := []string{
		"-M", qemuMachineType(),
		"-accel", qemuAccel(),
		"-m", fmt.Sprintf("%dM", vmMemoryMiB),
		"-smp", fmt.Sprintf("%d", vmCPUs),
		"-kernel", assets.Kernel,
		"-initrd", assets.Initramfs,
		"-append", qemuConsoleArg(),
		"-nographic", "-no-reboot",
		"-netdev", "user,id=net0," + hostfwdArgs(ports),
		"-device", "virtio-net-pci,netdev=net0",
	}

	cmd := exec.CommandContext(ctx, qemuBinaryName(), args...)
	if err := cmd.Start(); err != nil {
		return primitives.NewIo(qemuBinaryName(), "starting QEMU", err)
	}

	v.mu.Lock()
	v.cmd = cmd
	v.mu.Unlock()
	return nil
}

// Shutdown kills and awaits the QEMU child, if any.
func (v *vmInstance) Shutdown() error {
	v.mu.Lock()
	cmd := v.cmd
	v.cmd = nil
	v.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	return nil
}

func hostfwdArgs(ports []int) string {
	s := ""
	for _, p := range ports {
		s += fmt.Sprintf(",hostfwd=tcp:127.0.0.1:%d-:%d", p, p)
	}
	return s
}

func qemuBinaryName() string {
	switch runtime.GOARCH {
	case "arm64":
		return "qemu-system-aarch64"
	default:
		return "qemu-system-x86_64"
	}
}

func qemuMachineType() string {
	if runtime.GOARCH == "arm64" {
		return "virt"
	}
	return "q35"
}

func qemuAccel() string {
	switch runtime.GOOS {
	case "darwin":
		return "hvf"
	case "windows":
		return "whpx"
	default:
		return "tcg"
	}
}

func qemuConsoleArg() string {
	if runtime.GOARCH == "arm64" {
		return "console=ttyAMA0"
	}
	return "console=ttyS0"
}

func waitForAgentReady(ctx context.Context) error {
	deadline := time.Now().Add(readyPollBudget)
	ticker := time.NewTicker(readyPollEvery)
	defer ticker.Stop()

	for {
		if pingOnce() {
			return nil
		}
		if time.Now().After(deadline) {
			return primitives.NewConfig("guest VM agent did not become ready within %s", readyPollBudget)
		}
		select {
		case <-ctx.Done():
			return primitives.NewConfig("waiting for guest VM agent: %v", ctx.Err())
		case <-ticker.C:
		}
	}
}

func pingOnce() bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", agentPort), readyPollEvery)
	if err != nil {
		return false
	}
	defer conn.Close()
	reply, err := call(conn, "ping", nil)
	if err != nil {
		return false
	}
	var s string
	if err := decodeResult(reply, &s); err != nil {
		return false
	}
	return s == "pong"
}
