package primitives

import "strconv"

// cpuWeightPerCore mirrors cgroups v2's convention that a weight of 100
// corresponds to one full CPU's worth of scheduling share.
const cpuWeightPerCore = 100.0

// ParseCPU parses a component's declared CPU string (e.g. "0.5", "2") as a
// core count and converts it to a cgroups v2 cpu.weight value in the range
// 1..10000.
func ParseCPU(s string) (uint32, error) {
	cores, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, NewConfig("invalid cpu value %q: %v", s, err)
	}
	if cores <= 0 {
		return 0, NewConfig("cpu value %q must be positive", s)
	}
	weight := cores * cpuWeightPerCore
	switch {
	case weight < 1:
		weight = 1
	case weight > 10000:
		weight = 10000
	}
	return uint32(weight), nil
}
