// Package epoch tracks which workers are inside a protected region so that
// a garbage-collection phase can wait for quiescence before it proceeds.
//
// Each table owns one Set. A worker brackets a lookup with
// Protect/Unprotect; Quiesce bumps the current epoch and spins until every
// worker's last-seen epoch is at least as new, which can only be true once
// every lookup that started before the bump has finished.
package epoch

import (
	"runtime"
	"sync/atomic"

	"github.com/zeebo/uniset/internal/machine"
)

type entry struct {
	local uint64
	_     [machine.CacheLine - 8]byte
}

// Set is a per-table registry of protected-region markers, one per worker.
type Set struct {
	current uint64
	_       [machine.CacheLine - 8]byte
	safe    uint64
	_       [machine.CacheLine - 8]byte
	entries [machine.MaxThreads]entry
}

// NewSet returns a Set ready for use.
func NewSet() *Set {
	return &Set{current: 1}
}

func (s *Set) entry(h Handle) *entry {
	return &s.entries[h.id%machine.MaxThreads]
}

// Protect marks the worker as having entered the protected region and
// returns the epoch it observed.
func (s *Set) Protect(h Handle) uint64 {
	e := atomic.LoadUint64(&s.current)
	atomic.StoreUint64(&s.entry(h).local, e)
	return e
}

// Unprotect marks the worker as having left the protected region.
func (s *Set) Unprotect(h Handle) {
	atomic.StoreUint64(&s.entry(h).local, 0)
}

// IsProtected reports whether the worker is currently inside the protected
// region.
func (s *Set) IsProtected(h Handle) bool {
	return atomic.LoadUint64(&s.entry(h).local) != 0
}

// Quiesce bumps the epoch and blocks until no worker's protected-region
// marker predates the bump, i.e. every lookup in flight when Quiesce was
// called has since returned. It is meant to be called by a single,
// externally-serialized GC driver, never concurrently with itself.
func (s *Set) Quiesce() {
	target := atomic.AddUint64(&s.current, 1)

	for {
		oldest := target
		for i := range &s.entries {
			local := atomic.LoadUint64(&s.entries[i].local)
			if local != 0 && local < oldest {
				oldest = local
			}
		}
		if oldest == target {
			atomic.StoreUint64(&s.safe, target-1)
			return
		}
		runtime.Gosched()
	}
}
