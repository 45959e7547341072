package logstore

import (
	"strings"
	"testing"
)

func TestReadAbsentReturnsEmpty(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.Read("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

// spec §8 property 7: after append(a, ...) and append(b, ...) with a != b,
// read(a) contains exactly a's lines and none of b's, and symmetrically.
func TestLogsIsolation(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Append("a", "line-a-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("b", "line-b-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("a", "line-a-2"); err != nil {
		t.Fatal(err)
	}

	a, err := s.Read("a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Read("b")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(a, "line-a-1") || !strings.Contains(a, "line-a-2") {
		t.Errorf("a's log missing its own lines: %q", a)
	}
	if strings.Contains(a, "line-b-1") {
		t.Errorf("a's log contains b's line: %q", a)
	}
	if !strings.Contains(b, "line-b-1") {
		t.Errorf("b's log missing its own line: %q", b)
	}
	if strings.Contains(b, "line-a-1") || strings.Contains(b, "line-a-2") {
		t.Errorf("b's log contains a's lines: %q", b)
	}
}

func TestAppendAddsTrailingNewline(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Append("c", "no-newline"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Read("c")
	if got != "no-newline\n" {
		t.Fatalf("got %q", got)
	}
}
