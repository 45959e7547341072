package linuxbackend

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/containust/containust/internal/primitives"
)

const stopGracePeriod = 2 * time.Second

// Stop signals the init PID with SIGTERM, escalating to SIGKILL if the
// process is still alive after the grace period, then transitions the
// entry to Stopped and clears its PID.
func (b *Backend) Stop(ctx context.Context, id string) error {
	entry, err := b.states.Get(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return primitives.NewNotFound("container", id)
	}
	if entry.PID != nil {
		proc, err := os.FindProcess(*entry.PID)
		if err == nil {
			_ = proc.Signal(syscall.SIGTERM)
			if processAlive(*entry.PID) {
				time.Sleep(stopGracePeriod)
				if processAlive(*entry.PID) {
					_ = proc.Signal(syscall.SIGKILL)
				}
			}
		}
	}
	entry.PID = nil
	entry.State = string(primitives.StateStopped)
	return b.states.Upsert(*entry)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
