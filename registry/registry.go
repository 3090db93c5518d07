package registry

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	sharedptr "github.com/wippyai/shared-ptr"
	"github.com/wippyai/shared-ptr/errors"
)

// Registry tracks live control blocks. It implements sharedptr.Tracker:
// pass it to ptr.NewTracked and every counter transition on the resulting
// blocks flows through Observe. A closed or full registry refuses new
// registrations, which surfaces to the constructor as an allocation error.
//
// The registry sits outside the lock-free core and uses ordinary locking;
// tracked construction trades a little contention for observability.
type Registry struct {
	entries   map[uint64]*Entry
	observers []Observer
	obsMu     sync.RWMutex
	mu        sync.RWMutex
	stats     Stats
	capacity  int
	closed    bool
}

// New creates a registry without a live-block limit.
func New() *Registry {
	return NewWithCapacity(0)
}

// NewWithCapacity creates a registry that refuses registrations once n
// blocks are live. n <= 0 means unlimited.
func NewWithCapacity(n int) *Registry {
	return &Registry{
		entries:  make(map[uint64]*Entry, 64),
		capacity: n,
	}
}

// Register admits a new control block. Called by ptr.NewTracked before the
// block becomes visible to any handle; an error here aborts construction.
func (r *Registry) Register(id uint64, payloadType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.Closed()
	}
	if r.capacity > 0 && len(r.entries) >= r.capacity {
		return errors.Capacity(r.capacity)
	}

	r.entries[id] = &Entry{
		ID:          id,
		PayloadType: payloadType,
		Strong:      1,
		Weak:        1,
		CreatedAt:   time.Now(),
	}
	r.stats.Created++
	if live := len(r.entries); live > r.stats.PeakLive {
		r.stats.PeakLive = live
	}

	Logger().Debug("block registered",
		zap.Uint64("id", id),
		zap.String("payload", payloadType))
	return nil
}

// Observe records a counter transition and fans it out to observers.
func (r *Registry) Observe(ev sharedptr.Event) {
	r.mu.Lock()
	if e, ok := r.entries[ev.ID]; ok {
		e.Strong = ev.Strong
		e.Weak = ev.Weak
	}
	switch ev.Kind {
	case sharedptr.EventPayloadFreed:
		r.stats.PayloadsFreed++
	case sharedptr.EventBlockFreed:
		r.stats.BlocksFreed++
		delete(r.entries, ev.ID)
	}
	r.mu.Unlock()

	switch ev.Kind {
	case sharedptr.EventPayloadFreed, sharedptr.EventBlockFreed:
		Logger().Debug("block transition",
			zap.Uint64("id", ev.ID),
			zap.String("kind", ev.Kind.String()))
	}

	r.notify(ev)
}

// Subscribe adds an observer for block lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live tracked blocks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Each iterates over live entries. The callback receives a copy; return
// false to stop early.
func (r *Registry) Each(fn func(Entry) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if !fn(*e) {
			break
		}
	}
}

// Snapshot returns the live entries ordered by block ID.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats returns activity counters since creation.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.stats
	s.Live = len(r.entries)
	return s
}

// Close stops accepting registrations and reports every still-live block
// as a leak, one error per block, combined with multierr. Handles over
// leaked blocks keep working; the registry just stops tracking new ones.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	ids := make([]uint64, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e := r.entries[id]
		err = multierr.Append(err, errors.Leak(e.ID, e.PayloadType, e.Strong, e.Weak))
		Logger().Warn("block leaked",
			zap.Uint64("id", e.ID),
			zap.String("payload", e.PayloadType),
			zap.Int64("strong", e.Strong),
			zap.Int64("weak", e.Weak))
	}
	return err
}

func (r *Registry) notify(ev sharedptr.Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnBlockEvent(ev)
	}
}
