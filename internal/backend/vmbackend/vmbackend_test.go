package vmbackend

import (
	"bytes"
	"testing"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/ctst"
)

func TestCpioRoundTrip(t *testing.T) {
	entries := []CpioEntry{
		{Name: "tmp", Mode: modeDir},
		{Name: "init", Mode: modeExec, Data: []byte("#!/bin/sh\necho hi\n")},
		{Name: "sbin/containust-agent", Mode: modeExec, Data: []byte{0x7f, 'E', 'L', 'F', 1, 2, 3}},
	}

	var buf bytes.Buffer
	if err := WriteCpio(&buf, entries); err != nil {
		t.Fatalf("WriteCpio: %v", err)
	}

	got, err := ReadCpio(&buf)
	if err != nil {
		t.Fatalf("ReadCpio: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if got[i].Name != e.Name {
			t.Errorf("entry %d: name = %q, want %q", i, got[i].Name, e.Name)
		}
		if got[i].Mode != e.Mode {
			t.Errorf("entry %d: mode = %o, want %o", i, got[i].Mode, e.Mode)
		}
		if !bytes.Equal(got[i].Data, e.Data) && !(len(got[i].Data) == 0 && len(e.Data) == 0) {
			t.Errorf("entry %d: data = %v, want %v", i, got[i].Data, e.Data)
		}
	}
}

func TestCpioSkipsTrailer(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCpio(&buf, nil); err != nil {
		t.Fatalf("WriteCpio: %v", err)
	}
	got, err := ReadCpio(&buf)
	if err != nil {
		t.Fatalf("ReadCpio: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d entries for an empty archive, want 0", len(got))
	}
}

func TestHostfwdArgsIncludesEveryPort(t *testing.T) {
	got := hostfwdArgs([]int{10809, 8080})
	want := ",hostfwd=tcp:127.0.0.1:10809-:10809,hostfwd=tcp:127.0.0.1:8080-:8080"
	if got != want {
		t.Fatalf("hostfwdArgs = %q, want %q", got, want)
	}
}

func TestToRPCConfigFlattensEnv(t *testing.T) {
	cfg := backend.ContainerConfig{
		Name:  "web",
		Image: "example/web:latest",
		Env: []ctst.EnvVar{
			{Name: "PORT", Value: "8080"},
			{Name: "MODE", Value: "prod"},
		},
	}
	rpc := toRPCConfig(cfg)
	if rpc.Env["PORT"] != "8080" || rpc.Env["MODE"] != "prod" {
		t.Fatalf("toRPCConfig env = %#v, want PORT=8080 MODE=prod", rpc.Env)
	}
	if rpc.Name != "web" || rpc.Image != "example/web:latest" {
		t.Fatalf("toRPCConfig = %#v, unexpected name/image", rpc)
	}
}
