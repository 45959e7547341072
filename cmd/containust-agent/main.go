// Command containust-agent is the PID 1 payload injected into the
// customized initramfs the VM backend boots (spec §4.10, SPEC_FULL
// §4.15): it performs the guest's network bring-up (the init script
// only mounts filesystems before exec'ing it), then serves the fixed-port JSON-RPC line protocol the host's RPC
// client (internal/backend/vmbackend) speaks.
//
// The agent accepts exactly one TCP connection at a time (spec §5): each
// connection is read, answered, and closed before the next Accept call,
// so request ordering is whatever the host's sequential RPC client
// produces.
package main

import (
	"log"
	"net"
)

const agentAddr = "0.0.0.0:10809"

func main() {
	if err := bringUpNetwork(); err != nil {
		// Network bring-up failure is not fatal to the agent: a host
		// using only hostfwd to 127.0.0.1 can still reach it without a
		// working default route, and exiting here would strand the VM
		// with no way to retry.
		log.Printf("containust-agent: network bring-up: %v", err)
	}

	reg := newRegistry(containerRoot)

	ln, err := net.Listen("tcp", agentAddr)
	if err != nil {
		log.Fatalf("containust-agent: listen %s: %v", agentAddr, err)
	}
	defer ln.Close()
	log.Printf("containust-agent: listening on %s", agentAddr)

	serve(ln, reg)
}
