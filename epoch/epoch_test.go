package epoch

import (
	"sync"
	"testing"

	"github.com/zeebo/uniset/internal/assert"
)

func TestSet(t *testing.T) {
	t.Run("Protect+Unprotect", func(t *testing.T) {
		s := NewSet()
		h := AcquireHandle()
		defer ReleaseHandle(h)

		assert.That(t, !s.IsProtected(h))
		s.Protect(h)
		assert.That(t, s.IsProtected(h))
		s.Unprotect(h)
		assert.That(t, !s.IsProtected(h))
	})

	t.Run("Quiesce waits for in-flight protection", func(t *testing.T) {
		s := NewSet()
		h := AcquireHandle()
		defer ReleaseHandle(h)

		s.Protect(h)

		done := make(chan struct{})
		var quiesced bool

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Quiesce()
			quiesced = true
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("Quiesce returned while a worker was still protected")
		default:
		}

		s.Unprotect(h)
		wg.Wait()
		assert.That(t, quiesced)
	})
}

func BenchmarkSet(b *testing.B) {
	b.Run("Protect+Unprotect", func(b *testing.B) {
		s := NewSet()
		h := AcquireHandle()

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s.Protect(h)
			s.Unprotect(h)
		}
	})

	b.Run("Acquire+Release Parallel", func(b *testing.B) {
		s := NewSet()

		b.ReportAllocs()
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			h := AcquireHandle()
			for pb.Next() {
				s.Protect(h)
				s.Unprotect(h)
			}
		})
	})
}
