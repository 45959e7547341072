//go:build !linux

package isolation

func mountOverlay(OverlaySpec) error { return errLinuxRequired }

func unmountOverlay(string) error { return errLinuxRequired }
