package epoch

import (
	"sync/atomic"

	"github.com/zeebo/uniset/internal/machine"
)

var handleData struct {
	next uint32
	used [machine.MaxThreads]uint32
}

// Handle identifies one worker for the lifetime of a table operation. It
// should not cross goroutines for maximum performance, and calls involving
// the same Handle must not happen concurrently.
type Handle struct {
	id uint32
}

// ID returns the handle's slot in [0, machine.MaxThreads), stable for the
// life of the handle. Callers use it to index their own per-worker state,
// such as a table's allocator region slice.
func (h Handle) ID() int { return int(h.id % machine.MaxThreads) }

// AcquireHandle acquires a unique Handle for the calling goroutine.
func AcquireHandle() Handle {
	start := atomic.AddUint32(&handleData.next, 1)
	end := start + machine.MaxThreads*2

retry:
	if start == end {
		panic("too many thread handles")
	}
	id := start % machine.MaxThreads

	if !atomic.CompareAndSwapUint32(&handleData.used[id], 0, 1) {
		start++
		goto retry
	}

	return Handle{id: id}
}

// ReleaseHandle releases the handle for the thread, letting it be used by other threads.
func ReleaseHandle(h Handle) {
	atomic.StoreUint32(&handleData.used[h.id%machine.MaxThreads], 0)
}
