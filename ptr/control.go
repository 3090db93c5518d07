package ptr

import (
	"fmt"
	"sync/atomic"

	sharedptr "github.com/wippyai/shared-ptr"
)

// Control-block IDs are process-unique and monotonic. ID 0 is reserved for
// empty handles, which makes it double as the ordering key for Less.
var nextID atomic.Uint64

// control is the record shared by every handle over one owned payload.
// It is mutated only through atomic operations; no lock is ever taken.
//
// The weak counter is seeded to 1: all strong owners collectively hold one
// weak stake, returned by whichever release observes the strong count reach
// zero. The block outlives the payload for as long as real weak handles
// remain.
type control[T any] struct {
	strong  atomic.Int64
	weak    atomic.Int64
	payload atomic.Pointer[T]

	id      uint64
	tracker sharedptr.Tracker
}

func newControl[T any](p *T, tr sharedptr.Tracker) *control[T] {
	c := &control[T]{id: nextID.Add(1), tracker: tr}
	c.payload.Store(p)
	c.strong.Store(1)
	c.weak.Store(1)
	return c
}

func (c *control[T]) notify(kind sharedptr.EventKind) {
	if c.tracker == nil {
		return
	}
	c.tracker.Observe(sharedptr.Event{
		ID:     c.id,
		Kind:   kind,
		Strong: c.strong.Load(),
		Weak:   c.weak.Load(),
	})
}

// retain adds a strong stake. The caller must already hold one through a
// live handle, so the count cannot concurrently be zero here; resurrection
// from zero goes through retainIfAlive only.
func (c *control[T]) retain() {
	if n := c.strong.Add(1); n < 2 {
		panic(fmt.Sprintf("ptr: retain on dead control block (strong count %d)", n))
	}
	c.notify(sharedptr.EventRetained)
}

// retainIfAlive adds a strong stake only while at least one still exists.
// A plain load-branch-increment would race a concurrent release between the
// branch and the increment; the CAS keeps the zero check and the increment
// a single step, retrying only on benign contention.
func (c *control[T]) retainIfAlive() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			c.notify(sharedptr.EventRetained)
			return true
		}
	}
}

// release drops a strong stake. The decrement and the zero test share one
// atomic add, so exactly one caller observes zero; that caller alone frees
// the payload and returns the collective weak stake.
func (c *control[T]) release() {
	n := c.strong.Add(-1)
	if n < 0 {
		panic("ptr: strong count underflow, handle released twice")
	}
	c.notify(sharedptr.EventReleased)
	if n == 0 {
		c.freePayload()
		c.releaseWeak()
	}
}

func (c *control[T]) freePayload() {
	p := c.payload.Swap(nil)
	if p == nil {
		return
	}
	dropPayload(p)
	c.notify(sharedptr.EventPayloadFreed)
}

// retainWeak adds a weak stake. The caller proves the block is alive by
// holding a live handle of either kind, so the count cannot be zero.
func (c *control[T]) retainWeak() {
	if n := c.weak.Add(1); n < 2 {
		panic(fmt.Sprintf("ptr: weak retain on freed control block (weak count %d)", n))
	}
	c.notify(sharedptr.EventWeakRetained)
}

// releaseWeak drops a weak stake. The caller whose decrement reaches zero
// emits the block's final event; after that the ID is never seen again and
// the block is garbage.
func (c *control[T]) releaseWeak() {
	n := c.weak.Add(-1)
	if n < 0 {
		panic("ptr: weak count underflow, handle released twice")
	}
	c.notify(sharedptr.EventWeakReleased)
	if n == 0 {
		c.notify(sharedptr.EventBlockFreed)
	}
}

func dropPayload[T any](p *T) {
	if d, ok := any(p).(sharedptr.Dropper); ok {
		d.Drop()
	}
}
