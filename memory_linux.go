//go:build linux

package uniset

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func init() {
	DefaultProvider = MmapProvider{}
}

// MmapProvider is the default AllocProvider on Linux: anonymous private
// mappings for Alloc, and a fixed-address anonymous re-mapping for Remap so
// Clear can "zero" a region by dropping its pages instead of memclr-ing
// them.
type MmapProvider struct{}

func (MmapProvider) Alloc(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("uniset: mmap %d bytes: %w", n, err)
	}
	return b, nil
}

func (MmapProvider) Remap(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	_, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(len(b)),
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_FIXED),
		^uintptr(0), 0)
	if errno != 0 {
		return false, fmt.Errorf("uniset: remap %d bytes: %w", len(b), errno)
	}
	return true, nil
}

func (MmapProvider) Advise(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Madvise(b, unix.MADV_RANDOM)
}

func (MmapProvider) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
