// Package worker implements the divide-and-conquer task spawning the
// table's parallel sweeps rely on: a range larger than a threshold is split
// in half and its two halves run concurrently; smaller ranges run serially
// on the calling goroutine. It plays the role of the "worker runtime"
// external collaborator: spawn/sync over goroutines via errgroup instead of
// a dedicated task-stealing scheduler.
package worker

import (
	"golang.org/x/sync/errgroup"
)

// defaultSplitAt matches the original implementation's cutoff between
// spawning a parallel task and iterating serially.
const defaultSplitAt = 1024

// Runtime configures the divide-and-conquer cutoff for Parallel and Reduce.
// The zero value is ready to use.
type Runtime struct {
	// SplitAt is the largest range handled serially before splitting in
	// half and recursing concurrently. Zero means defaultSplitAt.
	SplitAt int
}

func (r Runtime) splitAt() int {
	if r.SplitAt > 0 {
		return r.SplitAt
	}
	return defaultSplitAt
}

// Parallel runs leaf over disjoint sub-ranges that partition
// [first, first+count), splitting ranges larger than SplitAt in half and
// running the two halves concurrently.
func (r Runtime) Parallel(first, count int, leaf func(first, count int)) {
	r.parallel(first, count, leaf)
}

func (r Runtime) parallel(first, count int, leaf func(first, count int)) {
	if count <= r.splitAt() {
		leaf(first, count)
		return
	}

	split := count / 2
	var g errgroup.Group
	g.Go(func() error {
		r.parallel(first, split, leaf)
		return nil
	})
	r.parallel(first+split, count-split, leaf)
	_ = g.Wait()
}

// Reduce is like Parallel but collects a result per leaf and combines
// sibling results with combine, implementing sweeps like count-marked that
// need a sum rather than a side effect.
func Reduce[T any](r Runtime, first, count int, leaf func(first, count int) T, combine func(a, b T) T) T {
	if count <= r.splitAt() {
		return leaf(first, count)
	}

	split := count / 2
	var left T
	var g errgroup.Group
	g.Go(func() error {
		left = Reduce(r, first, split, leaf, combine)
		return nil
	})
	right := Reduce(r, first+split, count-split, leaf, combine)
	_ = g.Wait()
	return combine(left, right)
}

// Together invokes task once for each worker id in [0, n) on its own
// goroutine and waits for all of them, mirroring the worker runtime's
// "run on every worker" primitive used to reset thread-local state.
func Together(n int, task func(id int)) {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		id := i
		g.Go(func() error {
			task(id)
			return nil
		})
	}
	_ = g.Wait()
}
