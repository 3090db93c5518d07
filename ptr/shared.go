package ptr

import (
	"fmt"

	sharedptr "github.com/wippyai/shared-ptr"
	"github.com/wippyai/shared-ptr/errors"
)

// Shared is a strong ownership handle over a heap-allocated payload.
//
// One Shared value is one strong stake. Duplicate stakes with Clone, return
// them exactly once with Release. Copying the struct by plain assignment
// copies the stake's identity without creating a new one; both copies then
// point at the same stake and only one of them may Release it.
//
// The zero value is an empty handle and is safe to Release, query, and
// assign over.
type Shared[T any] struct {
	ctl *control[T]
}

// New takes ownership of a freshly allocated payload and returns the
// handle holding its only strong stake. A nil payload yields an empty
// handle without allocating a control block.
func New[T any](p *T) Shared[T] {
	if p == nil {
		return Shared[T]{}
	}
	return Shared[T]{ctl: newControl(p, nil)}
}

// NewTracked is New with lifecycle tracking. The control block is
// registered with tr before any handle can see it; if tr refuses, the
// payload is dropped immediately and an allocation error is returned, so
// the caller's in-flight ownership never leaks.
func NewTracked[T any](tr sharedptr.Tracker, p *T) (Shared[T], error) {
	if p == nil {
		return Shared[T]{}, nil
	}
	if tr == nil {
		return New(p), nil
	}

	c := newControl(p, tr)
	typeName := fmt.Sprintf("%T", p)
	if err := tr.Register(c.id, typeName); err != nil {
		c.payload.Store(nil)
		dropPayload(p)
		return Shared[T]{}, errors.New(errors.PhaseNew, errors.KindAllocation).
			PayloadType(typeName).
			Handle(c.id).
			Cause(err).
			Detail("tracker refused registration").
			Build()
	}
	c.notify(sharedptr.EventCreated)
	return Shared[T]{ctl: c}, nil
}

// FromUnique consumes a uniquely-owned pointer, transferring its payload
// into a new Shared without copying. The unique pointer is left empty.
func FromUnique[T any](u *Unique[T]) Shared[T] {
	return New(u.Release())
}

// Clone duplicates the stake: the payload gains one strong owner. Cloning
// an empty handle yields an empty handle. The receiver itself proves the
// strong count is nonzero, so no CAS is needed here.
func (s Shared[T]) Clone() Shared[T] {
	if s.ctl == nil {
		return Shared[T]{}
	}
	s.ctl.retain()
	return Shared[T]{ctl: s.ctl}
}

// Move transfers the stake to the returned handle and empties the
// receiver. No counter traffic.
func (s *Shared[T]) Move() Shared[T] {
	c := s.ctl
	s.ctl = nil
	return Shared[T]{ctl: c}
}

// Assign replaces the receiver's stake with a clone of o's, releasing
// whatever the receiver held before. Copy-and-swap: the clone happens
// first, so s.Assign(s) and overlapping handles are safe.
func (s *Shared[T]) Assign(o *Shared[T]) {
	tmp := o.Clone()
	s.ctl, tmp.ctl = tmp.ctl, s.ctl
	tmp.Release()
}

// Swap exchanges the stakes of two handles. No counter traffic.
func (s *Shared[T]) Swap(o *Shared[T]) {
	s.ctl, o.ctl = o.ctl, s.ctl
}

// Release returns the stake. If it was the last strong stake the payload
// is dropped here, exactly once, regardless of how many goroutines release
// sibling handles concurrently. The handle becomes empty; releasing an
// empty handle is a no-op.
func (s *Shared[T]) Release() {
	c := s.ctl
	if c == nil {
		return
	}
	s.ctl = nil
	c.release()
}

// Get returns the payload pointer, or nil for an empty handle. The nil
// case is deliberately unchecked; dereferencing it faults, matching the
// zero-overhead contract. Callers needing safety hold a proven-live handle
// or check Valid first.
func (s Shared[T]) Get() *T {
	if s.ctl == nil {
		return nil
	}
	return s.ctl.payload.Load()
}

// UseCount returns the current number of strong stakes, or 0 for an empty
// handle. Advisory: under concurrent mutation the value may be stale the
// instant it is read.
func (s Shared[T]) UseCount() int64 {
	if s.ctl == nil {
		return 0
	}
	return s.ctl.strong.Load()
}

// Valid reports whether the handle holds a stake.
func (s Shared[T]) Valid() bool {
	return s.ctl != nil
}

// Equal reports whether two handles own the same control block. This is
// identity, not payload value equality.
func (s Shared[T]) Equal(o Shared[T]) bool {
	return s.ctl == o.ctl
}

// Less orders handles by control-block identity, for use as a map/tree
// key. Empty handles sort first. The order carries no domain meaning.
func (s Shared[T]) Less(o Shared[T]) bool {
	return s.id() < o.id()
}

// ID returns the control block's process-unique identifier, or 0 for an
// empty handle. This is the ID trackers and registries see.
func (s Shared[T]) ID() uint64 {
	return s.id()
}

func (s Shared[T]) id() uint64 {
	if s.ctl == nil {
		return 0
	}
	return s.ctl.id
}

// Downgrade returns a weak handle over the same payload. The weak handle
// never keeps the payload alive.
func (s Shared[T]) Downgrade() Weak[T] {
	if s.ctl == nil {
		return Weak[T]{}
	}
	s.ctl.retainWeak()
	return Weak[T]{ctl: s.ctl}
}
