package uniset

import "unsafe"

// AllocProvider supplies the large anonymous virtual memory ranges backing
// a table's directory, payload store, and bitmaps. It is the concrete type
// for the "memory provider" external collaborator.
type AllocProvider interface {
	// Alloc returns n zeroed bytes of memory, addressable for the life of
	// the table.
	Alloc(n int) ([]byte, error)

	// Remap attempts to replace b's backing pages with a fresh zeroed
	// mapping at the same address, avoiding a full memclr. It reports
	// false (with a nil error) if the platform doesn't support this, in
	// which case the caller must fall back to zeroing b itself.
	Remap(b []byte) (bool, error)

	// Advise hints that b will be accessed randomly rather than
	// sequentially. Implementations may ignore it.
	Advise(b []byte)

	// Free releases b's backing memory.
	Free(b []byte) error
}

// DefaultProvider is the AllocProvider used when a Config leaves Provider
// nil. It is mmap-backed on platforms that support it and falls back to
// plain Go heap allocation elsewhere; see memory_linux.go / memory_other.go.
var DefaultProvider AllocProvider

// MemclrProvider is a portable AllocProvider that allocates ordinary Go
// byte slices and can never remap in place; callers always fall back to
// zeroing. Useful on platforms without anonymous fixed-address remap, or in
// tests that want to avoid touching real virtual memory.
type MemclrProvider struct{}

func (MemclrProvider) Alloc(n int) ([]byte, error) { return make([]byte, n), nil }
func (MemclrProvider) Remap([]byte) (bool, error)  { return false, nil }
func (MemclrProvider) Advise([]byte)               {}
func (MemclrProvider) Free([]byte) error           { return nil }

// uint64View reinterprets a byte slice as a uint64 slice of 1/8th the
// length, relying on the byte slice's backing array being 8-byte aligned,
// which is guaranteed for slices returned by mmap or make([]byte, ...).
func uint64View(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), len(b)/8)
}

func zero(b []byte) {
	clear(b)
}
