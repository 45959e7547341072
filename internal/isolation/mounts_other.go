//go:build !linux

package isolation

func mountProc(string) error { return errLinuxRequired }

func mountSysReadonly(string) error { return errLinuxRequired }

func mountDevTmpfs(string, uint64) error { return errLinuxRequired }

func bindMount(string, string, bool) error { return errLinuxRequired }
