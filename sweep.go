package uniset

import (
	"sync/atomic"

	"github.com/zeebo/uniset/worker"
)

// Rehash clears the directory and re-publishes every marked payload slot
// into it, in parallel, via the worker runtime's divide-and-conquer split.
// The caller must have quiesced all lookups (see Quiesce) before calling
// this: Rehash does not itself protect against concurrent Lookup calls.
func (t *Table) Rehash() error {
	zero(t.dirMem)

	var failed atomic.Uint64
	failed.Store(^uint64(0))

	t.run.Parallel(0, int(t.tableSize), func(first, count int) {
		for i := first; i < first+count; i++ {
			idx := uint64(i)
			if idx < 2 || !t.IsMarked(idx) {
				continue
			}
			if !t.rehashBucket(idx) {
				failed.Store(idx)
			}
		}
	})

	if idx := failed.Load(); idx != ^uint64(0) {
		return &RehashError{Index: idx}
	}
	return nil
}

// CountMarked returns the number of payload slots currently marked live,
// computed in parallel via the worker runtime's divide-and-conquer reduce.
func (t *Table) CountMarked() uint64 {
	return worker.Reduce(t.run, 2, int(t.tableSize)-2,
		func(first, count int) uint64 {
			var n uint64
			for i := first; i < first+count; i++ {
				if t.IsMarked(uint64(i)) {
					n++
				}
			}
			return n
		},
		func(a, b uint64) uint64 { return a + b },
	)
}

// NotifyAll scans every slot that had NotifyOnDead called on it and is not
// currently marked live, and invokes the callback installed by SetOnDead
// for it. A callback returning true resurrects the slot, re-setting its
// occupancy bit but leaving the notify request in place so a later death
// is reported again; returning false clears the notify request, releasing
// the slot back to the allocator for good.
func (t *Table) NotifyAll() {
	if t.deadCB == nil {
		return
	}

	t.run.Parallel(0, int(t.tableSize), func(first, count int) {
		for i := first; i < first+count; i++ {
			idx := uint64(i)
			if t.IsMarked(idx) || !bitTest(t.bitmap3, idx) {
				continue
			}
			if t.deadCB(t.deadCtx, idx) {
				bitSetOnce(t.bitmap2, idx)
			} else {
				bitClear(t.bitmap3, idx)
			}
		}
	})
}
