// Package uniset implements a lock-free, fixed-capacity, unique-insert hash
// table: the backing store for interned two-word payloads where a value
// appears at most once and is identified by a stable index. It is the
// concurrent directory-plus-payload-store design described for interning
// tables in decision-diagram packages, generalized to run as an ordinary Go
// library over goroutines instead of a bespoke task runtime.
package uniset

import (
	"fmt"
	"math/bits"

	"github.com/zeebo/uniset/epoch"
	"github.com/zeebo/uniset/internal/machine"
	"github.com/zeebo/uniset/pin"
	"github.com/zeebo/uniset/worker"
)

// failIndex is the sentinel returned by Lookup/LookupCustom on probe
// exhaustion or allocator exhaustion. It is never a valid payload index
// because indices 0 and 1 are permanently reserved.
const failIndex = 0

// Table is a lock-free, fixed-capacity, unique-insert hash table mapping
// two-word payloads to stable indices.
type Table struct {
	cfg Config

	tableSize uint64
	maxSize   uint64
	mask      uint64
	threshold int

	dir  []uint64 // directory: pin.DirSlot words, len maxSize
	data []uint64 // payload store: (a,b) pairs, len 2*maxSize

	bitmap1 []uint64 // region ownership, one bit per 512-slot region
	bitmap2 []uint64 // occupancy == mark, one bit per slot
	bitmap3 []uint64 // notify-on-death, one bit per slot
	bitmap4 []uint64 // custom-hash flag, one bit per slot

	regions []uint64 // per-worker my_region, indexed by Handle.ID()

	hashCB   HashFunc
	equalsCB EqualsFunc
	deadCB   DeadFunc
	deadCtx  any

	quiesce *epoch.Set
	run     worker.Runtime

	dirMem, dataMem, bm1Mem, bm2Mem, bm3Mem, bm4Mem []byte
}

// Create allocates a table whose logical size starts at initialSize and can
// grow up to maxSize via SetSize. Both must be at least 512; in MaskMode
// both must additionally be powers of two.
func Create(cfg Config, initialSize, maxSize uint64) (*Table, error) {
	cfg = cfg.withDefaults()

	if initialSize < 512 {
		return nil, fmt.Errorf("%w: initial_size %d is smaller than the minimum 512", ErrInvalidConfig, initialSize)
	}
	if initialSize > maxSize {
		return nil, fmt.Errorf("%w: initial_size %d exceeds max_size %d", ErrInvalidConfig, initialSize, maxSize)
	}
	if cfg.MaskMode {
		if bits.OnesCount64(initialSize) != 1 {
			return nil, fmt.Errorf("%w: initial_size %d is not a power of two (mask mode)", ErrInvalidConfig, initialSize)
		}
		if bits.OnesCount64(maxSize) != 1 {
			return nil, fmt.Errorf("%w: max_size %d is not a power of two (mask mode)", ErrInvalidConfig, maxSize)
		}
	}

	t := &Table{cfg: cfg, maxSize: maxSize, quiesce: epoch.NewSet(), run: worker.Runtime{SplitAt: cfg.SplitAt}}

	var err error
	if t.dirMem, err = cfg.Provider.Alloc(8 * int(maxSize)); err != nil {
		return nil, err
	}
	if t.dataMem, err = cfg.Provider.Alloc(16 * int(maxSize)); err != nil {
		return nil, err
	}
	// bitmap1 needs one bit per 512-slot region; round up and keep at
	// least one word so a single-region table (max_size <= 4096) still
	// has a valid bitmap1[0] to CAS against.
	bm1Bytes := (int(maxSize) + 512*8 - 1) / (512 * 8)
	bm1Bytes = (bm1Bytes + 7) &^ 7 // whole words, so uint64View drops no bits
	if bm1Bytes < 8 {
		bm1Bytes = 8
	}
	if t.bm1Mem, err = cfg.Provider.Alloc(bm1Bytes); err != nil {
		return nil, err
	}
	if t.bm2Mem, err = cfg.Provider.Alloc(int(maxSize) / 8); err != nil {
		return nil, err
	}
	if t.bm3Mem, err = cfg.Provider.Alloc(int(maxSize) / 8); err != nil {
		return nil, err
	}
	if t.bm4Mem, err = cfg.Provider.Alloc(int(maxSize) / 8); err != nil {
		return nil, err
	}

	t.dir = uint64View(t.dirMem)
	t.data = uint64View(t.dataMem)
	t.bitmap1 = uint64View(t.bm1Mem)
	t.bitmap2 = uint64View(t.bm2Mem)
	t.bitmap3 = uint64View(t.bm3Mem)
	t.bitmap4 = uint64View(t.bm4Mem)

	cfg.Provider.Advise(t.dirMem)

	// forbid indices 0 and 1
	t.bitmap2[0] = 0xc000000000000000

	// regions is sized to the handle-ID space (machine.MaxThreads), the
	// same as epoch.Set.entries: AcquireHandle hands out IDs across that
	// whole space, and aliasing two live handles onto the same region
	// slot would break allocInRegion's single-writer assumption.
	t.regions = make([]uint64, machine.MaxThreads)
	worker.Together(len(t.regions), func(id int) {
		t.regions[id] = noRegion
	})

	if err := t.SetSize(initialSize); err != nil {
		t.Free()
		return nil, err
	}

	return t, nil
}

// SetSize updates the table's logical size. No physical remapping is
// needed because Create already reserved max_size worth of memory. The
// directory is left as it is: probe start points depend on the current
// size, so entries published under the old size are found again by Lookup
// only after a Rehash re-publishes them.
func (t *Table) SetSize(n uint64) error {
	if n > t.maxSize {
		return fmt.Errorf("%w: table_size %d exceeds max_size %d", ErrInvalidConfig, n, t.maxSize)
	}
	if t.cfg.MaskMode && bits.OnesCount64(n) != 1 {
		return fmt.Errorf("%w: table_size %d is not a power of two (mask mode)", ErrInvalidConfig, n)
	}

	t.tableSize = n
	if t.cfg.MaskMode {
		t.mask = n - 1
	}
	t.threshold = t.cfg.Threshold
	if t.threshold <= 0 {
		t.threshold = thresholdFor(n)
	}
	return nil
}

// Free releases the table's backing memory. The table must not be used
// afterward.
func (t *Table) Free() {
	_ = t.cfg.Provider.Free(t.dirMem)
	_ = t.cfg.Provider.Free(t.dataMem)
	_ = t.cfg.Provider.Free(t.bm1Mem)
	_ = t.cfg.Provider.Free(t.bm2Mem)
	_ = t.cfg.Provider.Free(t.bm3Mem)
	_ = t.cfg.Provider.Free(t.bm4Mem)
}

func (t *Table) probeStart(hash uint64) (idx, last uint64) {
	if t.cfg.MaskMode {
		idx = hash & t.mask
	} else {
		idx = hash % t.tableSize
	}
	return idx, idx
}

// nextProbe advances idx to the next slot within the same cache line,
// wrapping at the line boundary rather than past it.
func nextProbe(idx uint64) uint64 {
	const clMaskR = uint64(machine.HashPerCL - 1)
	return (idx &^ clMaskR) | ((idx + 1) & clMaskR)
}

// Lookup returns the index for payload (a,b) under the default hash and
// equality, inserting it if it isn't already present.
func (t *Table) Lookup(h Handle, a, b uint64) (index uint64, created bool) {
	return t.lookup2(h, a, b, false)
}

// LookupCustom is like Lookup but uses the callbacks installed by
// SetCustom. The table must have had SetCustom called before this is used.
func (t *Table) LookupCustom(h Handle, a, b uint64) (index uint64, created bool) {
	return t.lookup2(h, a, b, true)
}

func (t *Table) lookup2(h Handle, a, b uint64, custom bool) (uint64, bool) {
	t.quiesce.Protect(h)
	defer t.quiesce.Unprotect(h)

	hash := t.mix(a, b, fnvOffsetBasis, custom)
	tag := tagOf(hash)
	idx, last := t.probeStart(hash)

	var cidx uint64
	probe := 0

	for {
		bucket := &t.dir[idx]
		slot := pin.Load(bucket)

		if slot.Empty() {
			if cidx == 0 {
				var ok bool
				cidx, ok = t.claimPayloadSlot(h)
				if !ok {
					return failIndex, false
				}
				t.data[2*cidx] = a
				t.data[2*cidx+1] = b
			}

			newSlot := pin.NewDirSlot(tag, cidx)
			if newSlot.CAS(bucket, slot) {
				if custom || t.hashCB != nil {
					t.setCustomFlag(cidx, custom)
				}
				return cidx, true
			}
			slot = pin.Load(bucket)
		}

		if !slot.Empty() && slot.Tag() == tag {
			dIdx := slot.Index()
			da, db := t.data[2*dIdx], t.data[2*dIdx+1]

			var match bool
			if custom {
				match = t.equalsCB(a, b, da, db)
			} else {
				match = da == a && db == b
			}

			if match {
				if cidx != 0 {
					t.releasePayloadSlot(cidx)
				}
				return dIdx, false
			}
		}

		idx = nextProbe(idx)
		if idx == last {
			probe++
			if probe == t.threshold {
				return failIndex, false
			}
			hash = t.mix(a, b, hash, custom)
			tag = tagOf(hash)
			idx, last = t.probeStart(hash)
		}
	}
}

// rehashBucket re-publishes the payload at dIdx into the (already cleared)
// directory, without CAS contention or allocation: it is only ever run
// during GC, with lookups excluded.
func (t *Table) rehashBucket(dIdx uint64) bool {
	a, b := t.data[2*dIdx], t.data[2*dIdx+1]
	custom := t.hashCB != nil && t.getCustomFlag(dIdx)

	hash := t.mix(a, b, fnvOffsetBasis, custom)
	newSlot := pin.NewDirSlot(tagOf(hash), dIdx)
	idx, last := t.probeStart(hash)

	probe := 0
	for {
		bucket := &t.dir[idx]
		if pin.Load(bucket).Empty() && newSlot.CAS(bucket, 0) {
			return true
		}

		idx = nextProbe(idx)
		if idx == last {
			probe++
			if probe == t.threshold {
				return false
			}
			hash = t.mix(a, b, hash, custom)
			newSlot = pin.NewDirSlot(tagOf(hash), dIdx)
			idx, last = t.probeStart(hash)
		}
	}
}
