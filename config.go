package uniset

// HashFunc is a client-supplied mixer for the custom hash path. It receives
// the payload and the running seed (the previous mix's output, or the FNV
// offset basis on the first probe) and returns the next 64-bit hash.
type HashFunc func(a, b, seed uint64) uint64

// EqualsFunc is a client-supplied equality check for the custom hash path.
type EqualsFunc func(a1, b1, a2, b2 uint64) bool

// DeadFunc is invoked during NotifyAll for a slot that was requested via
// NotifyOnDead and was not marked live. Returning true resurrects the slot.
type DeadFunc func(ctx any, index uint64) bool

// Config carries a table's tunables. The zero value is valid and fills in
// defaults via withDefaults.
type Config struct {
	// MaskMode requires table and max sizes to be powers of two and uses a
	// bitmask instead of a modulo to compute probe starting points.
	MaskMode bool

	// Threshold bounds the number of cache-line probes (re-mixes) a lookup
	// will attempt before reporting failure. Zero derives it from the
	// table size, roughly 2*log2(table_size).
	Threshold int

	// SplitAt is the parallel-sweep divide-and-conquer cutoff. Zero uses
	// the worker package's default of 1024.
	SplitAt int

	// Provider supplies the table's backing virtual memory. Nil uses
	// DefaultProvider.
	Provider AllocProvider
}

func (c Config) withDefaults() Config {
	if c.Provider == nil {
		c.Provider = DefaultProvider
	}
	return c
}

func thresholdFor(tableSize uint64) int {
	t := 0
	for n := tableSize; n > 1; n >>= 1 {
		t++
	}
	if t < 1 {
		t = 1
	}
	return 2 * t
}
