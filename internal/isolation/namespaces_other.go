//go:build !linux

package isolation

func cloneFlags(NamespaceConfig) uintptr { return 0 }

func unshare(NamespaceConfig) error { return errLinuxRequired }

func joinNamespace(int, string) error { return errLinuxRequired }

func setHostname(string) error { return errLinuxRequired }

func writeIDMappings(int, []IDMapping, []IDMapping) error { return errLinuxRequired }
