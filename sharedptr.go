package sharedptr

// Dropper is optionally implemented by payload types that need cleanup.
// Drop is called exactly once, by whichever handle releases the last
// strong stake.
type Dropper interface {
	Drop()
}

// EventKind identifies a control-block lifecycle transition.
type EventKind uint8

const (
	EventCreated EventKind = iota
	EventRetained
	EventReleased
	EventWeakRetained
	EventWeakReleased
	EventPayloadFreed
	EventBlockFreed
)

// String returns the event kind name used in logs and summaries.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventWeakRetained:
		return "weak_retained"
	case EventWeakReleased:
		return "weak_released"
	case EventPayloadFreed:
		return "payload_freed"
	case EventBlockFreed:
		return "block_freed"
	default:
		return "unknown"
	}
}

// Event describes one counter transition on a control block.
// Strong and Weak are snapshots taken immediately after the transition;
// under concurrent mutation they may be stale by the time the event is
// observed.
type Event struct {
	ID     uint64
	Kind   EventKind
	Strong int64
	Weak   int64
}

// Tracker receives control-block lifecycle notifications.
//
// Register is called before a tracked block becomes visible to any handle.
// A non-nil error aborts construction; the caller destroys the in-flight
// payload before propagating it. Observe is called after every counter
// transition, including the final EventBlockFreed after which the ID is
// never seen again.
//
// Implementations must not call back into the handle that triggered the
// notification.
type Tracker interface {
	Register(id uint64, payloadType string) error
	Observe(Event)
}
