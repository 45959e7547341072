package main

import (
	"testing"
	"time"
)

func TestCreateStartStopLifecycle(t *testing.T) {
	reg := newRegistry(t.TempDir())

	id, err := reg.create(rpcContainerConfig{
		Name:    "sleeper",
		Command: []string{"sleep", "30"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m, err := reg.load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.State != stateCreated {
		t.Fatalf("expected state %q, got %q", stateCreated, m.State)
	}

	if err := reg.start(id); err != nil {
		t.Fatalf("start: %v", err)
	}
	m, err = reg.load(id)
	if err != nil {
		t.Fatalf("load after start: %v", err)
	}
	if m.State != stateRunning || m.PID == nil {
		t.Fatalf("expected running with a pid, got %+v", m)
	}

	if err := reg.stop(id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	m, err = reg.load(id)
	if err != nil {
		t.Fatalf("load after stop: %v", err)
	}
	if m.State != stateStopped || m.PID != nil {
		t.Fatalf("expected stopped with no pid, got %+v", m)
	}
}

func TestExecCapturesOutput(t *testing.T) {
	reg := newRegistry(t.TempDir())
	id, err := reg.create(rpcContainerConfig{Name: "c", Command: []string{"true"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := reg.exec(id, []string{"echo", "hello"})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Fatalf("got stdout %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Fatalf("got exit code %d", res.ExitCode)
	}
}

func TestExecNonZeroExit(t *testing.T) {
	reg := newRegistry(t.TempDir())
	id, err := reg.create(rpcContainerConfig{Name: "c", Command: []string{"true"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := reg.exec(id, []string{"sh", "-c", "exit 7"})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if res.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", res.ExitCode)
	}
}

func TestRemoveDeletesContainerDir(t *testing.T) {
	reg := newRegistry(t.TempDir())
	id, err := reg.create(rpcContainerConfig{Name: "c", Command: []string{"true"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := reg.load(id); err == nil {
		t.Fatalf("expected load of removed container to fail")
	}
}

func TestListReflectsAllContainers(t *testing.T) {
	reg := newRegistry(t.TempDir())
	idA, _ := reg.create(rpcContainerConfig{Name: "a", Command: []string{"true"}})
	idB, _ := reg.create(rpcContainerConfig{Name: "b", Command: []string{"true"}})

	list := reg.list()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	seen := map[string]bool{}
	for _, e := range list {
		seen[e.ID] = true
	}
	if !seen[idA] || !seen[idB] {
		t.Fatalf("list missing a created container: %+v", list)
	}
}

func TestLogsEmptyBeforeStart(t *testing.T) {
	reg := newRegistry(t.TempDir())
	id, err := reg.create(rpcContainerConfig{Name: "c", Command: []string{"true"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	logs, err := reg.logs(id)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if logs != "" {
		t.Fatalf("expected empty logs, got %q", logs)
	}
}

func TestStopGraceEscalatesOnStubbornProcess(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode: skipping grace-period timing test")
	}
	reg := newRegistry(t.TempDir())
	id, err := reg.create(rpcContainerConfig{
		Name:    "stubborn",
		Command: []string{"sh", "-c", "trap '' TERM; sleep 10"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.start(id); err != nil {
		t.Fatalf("start: %v", err)
	}

	start := time.Now()
	if err := reg.stop(id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if elapsed := time.Since(start); elapsed < stopGracePeriod {
		t.Fatalf("expected stop to wait out the grace period, took %v", elapsed)
	}
}
