package linuxbackend

// RunExec is the entry point for the exec helper process re-exec'd with
// ExecSubcommand: it joins the target pid's {mount, uts, ipc, net, pid}
// namespaces and then runs argv inside them, relaying stdio and the exit
// code to its own. On Linux it runs argv as a child and exits the helper
// process with the child's exit code; on other platforms it returns the
// fixed Config error.
func RunExec(pid int, argv []string) error {
	return runExec(pid, argv)
}
