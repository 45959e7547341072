package primitives

// ResourceLimits is an optional triple; any field absent means "no limit
// set." nil pointers signal "absent" rather than zero values, since zero is
// a meaningful weight only in the 1..10000 range which excludes it anyway.
type ResourceLimits struct {
	// CPUWeight is in the range 1..10000.
	CPUWeight *uint32
	// MemoryBytes is the hard memory ceiling.
	MemoryBytes *uint64
	// IOWeight is in the range 1..10000.
	IOWeight *uint32
}

// Validate checks the declared weight ranges.
func (r ResourceLimits) Validate() error {
	if r.CPUWeight != nil && (*r.CPUWeight < 1 || *r.CPUWeight > 10000) {
		return NewConfig("cpu weight %d out of range [1, 10000]", *r.CPUWeight)
	}
	if r.IOWeight != nil && (*r.IOWeight < 1 || *r.IOWeight > 10000) {
		return NewConfig("io weight %d out of range [1, 10000]", *r.IOWeight)
	}
	return nil
}
