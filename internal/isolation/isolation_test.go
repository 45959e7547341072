package isolation

import "testing"

func TestCapSetAddHas(t *testing.T) {
	s := NewCapSet(0, 1, 5)
	if !s.Has(0) || !s.Has(1) || !s.Has(5) {
		t.Fatal("expected added capabilities to be present")
	}
	if s.Has(2) {
		t.Fatal("expected capability 2 to be absent")
	}
}

func TestCapSetOutOfRangeIgnored(t *testing.T) {
	s := NewCapSet(CapLast + 1)
	if s.Has(CapLast + 1) {
		t.Fatal("out-of-range capability should never report present")
	}
}

func TestCapSetMissing(t *testing.T) {
	keep := NewCapSet(0, 1)
	missing := keep.Missing()
	if len(missing) != int(CapLast) {
		t.Fatalf("expected %d missing capabilities, got %d", CapLast, len(missing))
	}
	for _, c := range missing {
		if c == 0 || c == 1 {
			t.Fatalf("capability %d should be kept, not missing", c)
		}
	}
}

func TestOverlayLowerOrderPreservedInSpec(t *testing.T) {
	spec := OverlaySpec{Lower: []string{"base", "mid", "top"}, Upper: "up", Work: "wk", Merge: "mg"}
	if spec.Lower[0] != "base" || spec.Lower[2] != "top" {
		t.Fatal("OverlaySpec.Lower must preserve bottom-to-top input order")
	}
}
