package primitives

import (
	"strconv"
	"strings"
)

// memoryUnit pairs a suffix with its byte multiplier. Binary (1024-based)
// suffixes are listed before their decimal (1000-based) counterparts so a
// longer, more specific suffix never gets shadowed by a shorter prefix match.
var memoryUnits = []struct {
	suffix     string
	multiplier uint64
}{
	{"GiB", 1024 * 1024 * 1024},
	{"MiB", 1024 * 1024},
	{"KiB", 1024},
	{"GB", 1_000_000_000},
	{"MB", 1_000_000},
	{"KB", 1_000},
}

// ParseMemory parses the suffixes GiB/GB/MiB/MB/KiB/KB (1024- vs 1000-based)
// and defaults to raw bytes when no recognized suffix is present.
func ParseMemory(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewConfig("empty memory value")
	}
	for _, u := range memoryUnits {
		if strings.HasSuffix(s, u.suffix) {
			numPart := strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			n, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, NewConfig("invalid memory value %q: %v", s, err)
			}
			if n < 0 {
				return 0, NewConfig("negative memory value %q", s)
			}
			return uint64(n * float64(u.multiplier)), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, NewConfig("invalid memory value %q: %v", s, err)
	}
	return n, nil
}
