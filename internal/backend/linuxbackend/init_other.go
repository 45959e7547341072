//go:build !linux

package linuxbackend

import "github.com/containust/containust/internal/primitives"

func runInitRemainder(childConfig) error {
	return primitives.NewConfig("Linux required for native container operations")
}
