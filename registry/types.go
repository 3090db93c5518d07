package registry

import (
	"time"

	sharedptr "github.com/wippyai/shared-ptr"
)

// Entry describes one tracked control block. Strong and Weak are the
// counts from the most recently observed transition; under concurrent
// mutation they are advisory, the same way Shared.UseCount is.
type Entry struct {
	CreatedAt   time.Time
	PayloadType string
	ID          uint64
	Strong      int64
	Weak        int64
}

// Observer receives lifecycle events for tracked blocks.
type Observer interface {
	OnBlockEvent(sharedptr.Event)
}

// Stats summarizes registry activity since creation.
type Stats struct {
	Created       uint64 // blocks registered
	PayloadsFreed uint64 // payloads destroyed
	BlocksFreed   uint64 // control blocks fully released
	Live          int    // blocks currently tracked
	PeakLive      int    // high-water mark of tracked blocks
}
