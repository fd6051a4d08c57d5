package uniset

import "github.com/zeebo/uniset/epoch"

// Handle identifies one worker calling into a Table. Acquire one per
// goroutine and reuse it across calls into the same table; a Handle must
// not be used concurrently by more than one goroutine.
type Handle = epoch.Handle

// AcquireHandle acquires a unique Handle for the calling goroutine.
func AcquireHandle() Handle { return epoch.AcquireHandle() }

// ReleaseHandle releases a Handle acquired from AcquireHandle.
func ReleaseHandle(h Handle) { epoch.ReleaseHandle(h) }
