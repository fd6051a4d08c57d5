package uniset

// IsMarked reports whether the payload slot at index is marked live. A
// slot's mark bit is the same bit as its occupancy bit (bitmap2): once a GC
// cycle clears the directory and region bitmaps, re-marking a still-live
// slot during tracing is what tells the rehash sweep to re-insert it.
func (t *Table) IsMarked(index uint64) bool {
	return bitTest(t.bitmap2, index)
}

// Mark atomically marks the payload slot at index live and reports whether
// this call was the one that set the mark (false if already marked this
// epoch).
func (t *Table) Mark(index uint64) bool {
	return bitSetOnce(t.bitmap2, index)
}

// NotifyOnDead requests that SetOnDead's callback be invoked for index if
// it is found unmarked at the next NotifyAll.
func (t *Table) NotifyOnDead(index uint64) {
	bitSetOnce(t.bitmap3, index)
}

// SetOnDead installs the callback invoked by NotifyAll for slots that were
// requested via NotifyOnDead and were not marked live.
func (t *Table) SetOnDead(cb DeadFunc, ctx any) {
	t.deadCB = cb
	t.deadCtx = ctx
}

// SetCustom installs the client's hash and equality callbacks, enabling
// LookupCustom.
func (t *Table) SetCustom(hash HashFunc, equals EqualsFunc) {
	t.hashCB = hash
	t.equalsCB = equals
}
