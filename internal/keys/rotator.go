// Package keys rotates through a fixed pool of API credentials.  All
// request kinds share one cursor, so calls are distributed round-robin
// across the pool regardless of where they originate.
package keys

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrEmptyPool is returned when a rotator is constructed without any
// credentials.
var ErrEmptyPool = errors.New("keys: empty credential pool")

// Rotator hands out credentials round-robin. The pool is fixed at
// construction time; only the cursor moves.
type Rotator struct {
	pool    []string
	counter uint64
}

// NewRotator builds a rotator over the given pool. The pool must be
// non-empty; it is copied so the caller cannot mutate it afterwards.
func NewRotator(pool []string) (*Rotator, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	keys := make([]string, len(pool))
	copy(keys, pool)
	return &Rotator{pool: keys}, nil
}

// Next returns the next credential and advances the shared cursor.  The
// increment is atomic: concurrent callers may interleave, but no position
// is ever skipped or handed out twice in a row more often than round-robin
// ordering allows.
func (r *Rotator) Next() string {
	idx := atomic.AddUint64(&r.counter, 1) - 1
	return r.pool[idx%uint64(len(r.pool))]
}

// Len reports the pool size.
func (r *Rotator) Len() int { return len(r.pool) }
