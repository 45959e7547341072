package main

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/containust/containust/cmd/containust/agentasset"
	"github.com/containust/containust/internal/engine"
)

// homedirFallback backs up os.UserHomeDir with mitchellh/go-homedir for
// environments (e.g. a cross-compiled guest shell, or $HOME unset under
// some init systems) where the stdlib lookup comes back empty.
func homedirFallback() (string, error) {
	return homedir.Dir()
}

// embeddedAgentBinary returns the guest agent binary this host's VM
// backend should inject into its customized initramfs.
func embeddedAgentBinary() ([]byte, error) {
	return agentasset.ForHostArch()
}

// projectDataRoot resolves where this invocation's state/logs live:
// cctx.StateFile, if set, must follow the documented "<dir>/state/state.json"
// layout (spec §6) so its grandparent is the data root; otherwise it is
// the composition file's project-local directory (spec §4.11 step 1).
func projectDataRoot(cctx *Context) (string, error) {
	if cctx.StateFile == "" {
		return engine.ProjectDir(cctx.CompositionFile)
	}
	parent := filepath.Dir(cctx.StateFile)
	if filepath.Base(parent) != "state" {
		return "", fmt.Errorf("--state-file must be named <dir>/state/state.json, got %q", cctx.StateFile)
	}
	return filepath.Dir(parent), nil
}

// newEngine builds the Engine this invocation should drive: resolves the
// data root, selects a backend, and wires them together.
func newEngine(cctx *Context) (*engine.Engine, error) {
	dir, err := projectDataRoot(cctx)
	if err != nil {
		return nil, err
	}
	b, err := selectBackend(dir, cctx.Offline)
	if err != nil {
		return nil, err
	}
	return engine.New(b, cctx.CompositionFile, dir), nil
}
