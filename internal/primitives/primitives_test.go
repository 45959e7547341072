package primitives

import "testing"

func TestHashBytesHelloWorld(t *testing.T) {
	got := HashBytes([]byte("hello world"))
	want := Digest("b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9")
	if got != want {
		t.Fatalf("HashBytes(%q) = %s, want %s", "hello world", got, want)
	}
}

func TestValidateHash(t *testing.T) {
	valid := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if err := ValidateHash(valid); err != nil {
		t.Fatalf("ValidateHash(%q) = %v, want nil", valid, err)
	}
	invalid := []string{
		"",
		"deadbeef",
		valid[:63],
		valid + "f",
		valid[:63] + "Z",
	}
	for _, s := range invalid {
		if err := ValidateHash(s); err == nil {
			t.Errorf("ValidateHash(%q) = nil, want error", s)
		}
	}
}

func TestParseMemory(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"128MiB", 134217728},
		{"1GiB", 1073741824},
		{"1048576", 1048576},
		{"512KiB", 524288},
		{"1GB", 1_000_000_000},
		{"1MB", 1_000_000},
		{"1KB", 1_000},
	}
	for _, c := range cases {
		got, err := ParseMemory(c.in)
		if err != nil {
			t.Errorf("ParseMemory(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseMemory(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseMemoryInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-5MiB", "5XiB"} {
		if _, err := ParseMemory(in); err == nil {
			t.Errorf("ParseMemory(%q) = nil error, want error", in)
		}
	}
}

func TestContainerStateTransitions(t *testing.T) {
	if !StateCreated.CanTransitionTo(StateRunning) {
		t.Error("Created -> Running should be allowed")
	}
	if !StateRunning.CanTransitionTo(StateStopped) {
		t.Error("Running -> Stopped should be allowed")
	}
	if !StateCreated.CanTransitionTo(StateFailed) {
		t.Error("any -> Failed should be allowed")
	}
	if StateCreated.CanTransitionTo(StateStopped) {
		t.Error("Created -> Stopped should not be allowed")
	}
	if !StateStopped.Terminal() || !StateFailed.Terminal() {
		t.Error("Stopped and Failed should be terminal")
	}
	if StateCreated.Terminal() || StateRunning.Terminal() {
		t.Error("Created and Running should not be terminal")
	}
}

func TestResourceLimitsValidate(t *testing.T) {
	bad := uint32(0)
	rl := ResourceLimits{CPUWeight: &bad}
	if err := rl.Validate(); err == nil {
		t.Error("expected error for cpu weight 0")
	}
	ok := uint32(500)
	rl2 := ResourceLimits{CPUWeight: &ok, IOWeight: &ok}
	if err := rl2.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
