package ptr

import (
	"github.com/wippyai/shared-ptr/errors"
)

// Weak is a non-owning handle over a payload managed by Shared handles.
// It keeps the control block alive but never the payload; the payload can
// be destroyed while Weak handles remain, at which point they are expired.
//
// The zero value is an empty handle.
type Weak[T any] struct {
	ctl *control[T]
}

// Clone duplicates the weak stake.
func (w Weak[T]) Clone() Weak[T] {
	if w.ctl == nil {
		return Weak[T]{}
	}
	w.ctl.retainWeak()
	return Weak[T]{ctl: w.ctl}
}

// Assign replaces the receiver's weak stake with a clone of o's,
// copy-and-swap style. Self-assignment safe.
func (w *Weak[T]) Assign(o *Weak[T]) {
	tmp := o.Clone()
	w.ctl, tmp.ctl = tmp.ctl, w.ctl
	tmp.Release()
}

// Release returns the weak stake and empties the handle. The last weak
// release frees the control block. No-op on an empty handle.
func (w *Weak[T]) Release() {
	c := w.ctl
	if c == nil {
		return
	}
	w.ctl = nil
	c.releaseWeak()
}

// Expired reports whether the payload is already gone: the handle is empty
// or the strong count is zero at the moment of the call. The answer is a
// snapshot and may be stale by the time the caller acts on it; Lock is the
// only safe way to obtain a usable strong handle.
func (w Weak[T]) Expired() bool {
	return w.ctl == nil || w.ctl.strong.Load() == 0
}

// Lock attempts to promote the weak handle into a strong one. On success
// the returned handle holds a fresh stake over the still-live payload; if
// the payload was already gone, it is empty. Lock never blocks,
// never allocates, and never returns an error: "no longer available" is a
// normal outcome for a weak consumer, not an exceptional one.
func (w Weak[T]) Lock() Shared[T] {
	if w.ctl == nil || !w.ctl.retainIfAlive() {
		return Shared[T]{}
	}
	return Shared[T]{ctl: w.ctl}
}

// Upgrade is the strict form of Lock for callers that treat expiration as
// a failure: it returns an expired-weak error instead of an empty handle.
func (w Weak[T]) Upgrade() (Shared[T], error) {
	if w.ctl == nil {
		return Shared[T]{}, errors.ExpiredWeak(0)
	}
	if !w.ctl.retainIfAlive() {
		return Shared[T]{}, errors.ExpiredWeak(w.ctl.id)
	}
	return Shared[T]{ctl: w.ctl}, nil
}

// Valid reports whether the handle holds a weak stake. A valid handle may
// still be expired.
func (w Weak[T]) Valid() bool {
	return w.ctl != nil
}

// ID returns the control block's identifier, or 0 for an empty handle.
func (w Weak[T]) ID() uint64 {
	if w.ctl == nil {
		return 0
	}
	return w.ctl.id
}
