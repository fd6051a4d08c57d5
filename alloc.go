package uniset

import (
	"math/bits"
	"sync/atomic"

	"github.com/zeebo/uniset/internal/machine"
)

// noRegion is the "no region owned" sentinel for Table.regions, matching
// the teacher's uint64(-1) thread-local sentinel.
const noRegion = ^uint64(0)

// claimPayloadSlot finds a free payload slot for the calling worker,
// preferring its currently-owned region before claiming a fresh one from
// bitmap1. It returns the "table full" sentinel if a full pass over the
// regions finds nothing free.
func (t *Table) claimPayloadSlot(h Handle) (uint64, bool) {
	// h.ID() already ranges over exactly [0, len(t.regions)): regions is
	// sized to the handle-ID space, not to a worker count, so each live
	// handle owns a distinct slot and allocInRegion's single-writer
	// assumption holds.
	owned := &t.regions[h.ID()]
	regionsTotal := t.tableSize / machine.RegionSlots

	for {
		region := atomic.LoadUint64(owned)

		if region != noRegion {
			if idx, ok := t.allocInRegion(region); ok {
				return idx, true
			}
		} else {
			// first-use bias: spread workers across the space instead of
			// all starting the scan at region 0.
			bias := (uint64(h.ID()) * (t.tableSize / 4096)) / uint64(len(t.regions))
			region = bias - 1 // claimFreshRegion increments before trying
		}

		next, ok := t.claimFreshRegion(region, regionsTotal)
		if !ok {
			return failIndex, false
		}
		atomic.StoreUint64(owned, next)
	}
}

// allocInRegion scans the 8 bitmap2 words backing region for a zero bit,
// claims it with a plain atomic store (no CAS needed: the calling worker is
// the region's sole writer until the next Clear), and returns the resulting
// global slot index.
func (t *Table) allocInRegion(region uint64) (uint64, bool) {
	base := region * 8
	for i := uint64(0); i < 8; i++ {
		word := &t.bitmap2[base+i]
		v := atomic.LoadUint64(word)
		if v == ^uint64(0) {
			continue
		}
		j := uint64(bits.LeadingZeros64(^v))
		atomic.StoreUint64(word, v|bitMask(j))
		return (base+i)*64 + j, true
	}
	return 0, false
}

// claimFreshRegion scans bitmap1 starting just after region for an unowned
// region, CAS-claiming the first one found. It returns false if a full pass
// finds every region already owned.
func (t *Table) claimFreshRegion(region, regionsTotal uint64) (uint64, bool) {
	for count := regionsTotal; count > 0; count-- {
		region++
		if region >= regionsTotal {
			region = 0
		}

		word := &t.bitmap1[region/64]
		mask := bitMask(region)
		for {
			v := atomic.LoadUint64(word)
			if v&mask != 0 {
				break // taken, try the next region
			}
			if atomic.CompareAndSwapUint64(word, v, v|mask) {
				return region, true
			}
		}
	}
	return 0, false
}

// releasePayloadSlot clears the occupancy bit for a speculatively reserved
// slot that lost its directory CAS to a concurrent equal-payload insert.
func (t *Table) releasePayloadSlot(index uint64) {
	bitClear(t.bitmap2, index)
}

// setCustomFlag records whether index was inserted via the custom hash
// path, so a later rehash knows which mixer to re-derive its tag with.
func (t *Table) setCustomFlag(index uint64, on bool) {
	if on {
		bitSetOnce(t.bitmap4, index)
	} else {
		bitClear(t.bitmap4, index)
	}
}

func (t *Table) getCustomFlag(index uint64) bool {
	return bitTest(t.bitmap4, index)
}
