//go:build !linux

package isolation

func dropCapabilities(CapSet) error { return errLinuxRequired }
