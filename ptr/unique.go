package ptr

// Unique is a single-owner pointer used as a construction source for
// Shared. It exists so ownership transfer into a Shared is explicit and
// copy-free; it deliberately has no Clone.
//
// The zero value is empty.
type Unique[T any] struct {
	p *T
}

// NewUnique takes sole ownership of a freshly allocated payload.
func NewUnique[T any](p *T) Unique[T] {
	return Unique[T]{p: p}
}

// Get returns the payload pointer, or nil when empty.
func (u *Unique[T]) Get() *T {
	return u.p
}

// Valid reports whether the pointer owns a payload.
func (u *Unique[T]) Valid() bool {
	return u.p != nil
}

// Release transfers ownership out, leaving the pointer empty. The caller
// becomes responsible for the payload.
func (u *Unique[T]) Release() *T {
	p := u.p
	u.p = nil
	return p
}

// Drop destroys the payload now, invoking its Dropper if it has one.
// No-op when empty.
func (u *Unique[T]) Drop() {
	p := u.p
	if p == nil {
		return
	}
	u.p = nil
	dropPayload(p)
}
