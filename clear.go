package uniset

import (
	"fmt"
	"os"

	"github.com/zeebo/uniset/worker"
)

// Clear empties the table: it quiesces every in-flight Lookup/LookupCustom
// call, then remaps (or, failing that, zero-fills) the directory and the
// region bitmaps, re-establishes the reserved bits for indices 0 and 1, and
// resets every worker's region ownership so the next Lookup starts from a
// fresh region.
//
// bitmap3 (notify-on-death) and bitmap4 (custom-hash flag) are left
// untouched: NotifyAll needs bitmap3 to still reflect requests made before
// this Clear, and Rehash needs bitmap4 to know which mixer re-publishes a
// still-marked payload. A bitmap3 bit is cleared only by NotifyAll, when the
// callback declines to resurrect the slot; a bitmap4 bit is rewritten when
// its slot is reused by a Lookup on a table that has a custom hash
// installed.
//
// Clear does not itself decide what survives: it wipes every mark along
// with occupancy, so callers that want generational behavior should Mark
// the payloads they intend to keep after calling Clear, then Rehash to
// re-publish them.
func (t *Table) Clear() {
	t.quiesce.Quiesce()

	t.remapOrZero(t.dirMem)
	t.remapOrZero(t.bm1Mem)
	t.remapOrZero(t.bm2Mem)

	t.bitmap2[0] = 0xc000000000000000

	worker.Together(len(t.regions), func(id int) {
		t.regions[id] = noRegion
	})
}

func (t *Table) remapOrZero(b []byte) {
	if len(b) == 0 {
		return
	}
	ok, err := t.cfg.Provider.Remap(b)
	if err != nil {
		fmt.Fprintln(os.Stderr, "uniset: remap failed, falling back to memclr:", err)
	}
	if !ok {
		zero(b)
	}
}
