package worker

import (
	"sync/atomic"
	"testing"

	"github.com/zeebo/uniset/internal/assert"
)

func TestParallel(t *testing.T) {
	r := Runtime{SplitAt: 4}

	const n = 100
	var seen [n]int32
	r.Parallel(0, n, func(first, count int) {
		for i := first; i < first+count; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for _, v := range seen {
		assert.Equal(t, v, int32(1))
	}
}

func TestReduce(t *testing.T) {
	r := Runtime{SplitAt: 4}

	const n = 997
	got := Reduce(r, 0, n,
		func(first, count int) int {
			sum := 0
			for i := first; i < first+count; i++ {
				sum += i
			}
			return sum
		},
		func(a, b int) int { return a + b },
	)

	want := n * (n - 1) / 2
	assert.Equal(t, got, want)
}

func TestTogether(t *testing.T) {
	const n = 10
	var seen [n]int32
	Together(n, func(id int) {
		atomic.AddInt32(&seen[id], 1)
	})

	for _, v := range seen {
		assert.Equal(t, v, int32(1))
	}
}

func BenchmarkParallel(b *testing.B) {
	r := Runtime{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Parallel(0, 1<<16, func(first, count int) {})
	}
}
