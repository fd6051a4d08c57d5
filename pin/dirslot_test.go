package pin

import (
	"testing"

	"github.com/zeebo/uniset/internal/assert"
)

func TestDirSlot(t *testing.T) {
	t.Run("Pack", func(t *testing.T) {
		d := NewDirSlot(12345, 67890)

		assert.Equal(t, d.Tag(), uint64(12345))
		assert.Equal(t, d.Index(), uint64(67890))
		assert.That(t, !d.Empty())
	})

	t.Run("Empty", func(t *testing.T) {
		var d DirSlot
		assert.That(t, d.Empty())
	})

	t.Run("CAS", func(t *testing.T) {
		var word uint64
		d1 := NewDirSlot(1, 2)
		d2 := NewDirSlot(3, 4)

		assert.That(t, d1.CAS(&word, DirSlot(0)))
		assert.Equal(t, Load(&word), d1)

		assert.That(t, !d2.CAS(&word, DirSlot(0)))
		assert.That(t, d2.CAS(&word, d1))
		assert.Equal(t, Load(&word), d2)
	})
}
