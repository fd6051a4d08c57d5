package uniset

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Create when the requested sizes violate
// the table's constraints (power-of-two in mask mode, initial_size < 512,
// initial_size > max_size).
var ErrInvalidConfig = errors.New("uniset: invalid configuration")

// RehashError is returned by Rehash when a live payload's probe budget was
// exhausted while re-publishing it into the freshly cleared directory. The
// caller should grow the table (SetSize) and retry.
type RehashError struct {
	Index uint64
}

func (e *RehashError) Error() string {
	return fmt.Sprintf("uniset: rehash exhausted its probe budget at payload index %d; grow the table and retry", e.Index)
}
