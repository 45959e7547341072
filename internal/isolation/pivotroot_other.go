//go:build !linux

package isolation

func pivotRoot(string) error { return errLinuxRequired }
