// Package pin provides atomically loadable, CAS-able packed-word types.
//
// DirSlot packs the two fields a directory entry needs — a short hash tag
// for fast rejection and the index of the payload it resolves to — into a
// single machine word so that publication is one CAS.
package pin

import (
	"sync/atomic"
)

const (
	// indexBits is the width of the payload index field; the remaining high
	// bits hold the tag.
	indexBits = 44
	indexMask = 1<<indexBits - 1
	tagShift  = indexBits
)

// DirSlot is a directory slot: either the empty sentinel 0, or tag<<44|index
// for some tag in [0, 2^20) and index in [0, 2^44). Zero is never published
// because the allocator reserves indices 0 and 1, so a published slot's
// index field is always >= 2, and tag 0 with index 0/1 can't occur.
type DirSlot uint64

// NewDirSlot packs a hash tag and payload index into a DirSlot.
func NewDirSlot(tag, index uint64) DirSlot {
	return DirSlot(tag<<tagShift | (index & indexMask))
}

// Empty reports whether the slot is the unpublished sentinel.
func (d DirSlot) Empty() bool { return d == 0 }

// Tag returns the hash tag stored in the slot.
func (d DirSlot) Tag() uint64 { return uint64(d) >> tagShift }

// Index returns the payload index stored in the slot.
func (d DirSlot) Index() uint64 { return uint64(d) & indexMask }

// Load atomically loads a DirSlot from addr.
func Load(addr *uint64) DirSlot {
	return DirSlot(atomic.LoadUint64(addr))
}

// Store atomically stores the slot into addr.
func (d DirSlot) Store(addr *uint64) {
	atomic.StoreUint64(addr, uint64(d))
}

// CAS atomically stores d into addr if addr currently holds old.
func (d DirSlot) CAS(addr *uint64, old DirSlot) bool {
	return atomic.CompareAndSwapUint64(addr, uint64(old), uint64(d))
}
