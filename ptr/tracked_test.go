package ptr

import (
	stderrors "errors"
	"sync/atomic"
	"testing"

	sharedptr "github.com/wippyai/shared-ptr"
	ptrerrors "github.com/wippyai/shared-ptr/errors"
)

type countingTracker struct {
	refuse        error
	registrations atomic.Int32
	payloadFrees  atomic.Int32
	blockFrees    atomic.Int32
}

func (t *countingTracker) Register(id uint64, payloadType string) error {
	if t.refuse != nil {
		return t.refuse
	}
	t.registrations.Add(1)
	return nil
}

func (t *countingTracker) Observe(ev sharedptr.Event) {
	switch ev.Kind {
	case sharedptr.EventPayloadFreed:
		t.payloadFrees.Add(1)
	case sharedptr.EventBlockFreed:
		t.blockFrees.Add(1)
	}
}

func TestNewTracked_Basic(t *testing.T) {
	tr := &countingTracker{}
	r := newResource(1)

	s, err := NewTracked(tr, r)
	if err != nil {
		t.Fatalf("NewTracked: %v", err)
	}
	if tr.registrations.Load() != 1 {
		t.Fatal("block should register exactly once")
	}
	if s.Get() != r {
		t.Fatal("tracked handle should own the payload")
	}

	s.Release()
	if tr.payloadFrees.Load() != 1 || tr.blockFrees.Load() != 1 {
		t.Fatalf("frees = %d/%d, want 1/1",
			tr.payloadFrees.Load(), tr.blockFrees.Load())
	}
}

func TestNewTracked_RefusalDropsPayload(t *testing.T) {
	cause := stderrors.New("registry full")
	tr := &countingTracker{refuse: cause}
	r := newResource(1)

	s, err := NewTracked(tr, r)
	if err == nil {
		t.Fatal("refused registration should fail construction")
	}
	if s.Valid() {
		t.Fatal("no partially constructed handle may be observable")
	}
	if r.drops.Load() != 1 {
		t.Fatal("in-flight payload must be dropped before the error propagates")
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("error should wrap the tracker's cause, got %v", err)
	}

	var perr *ptrerrors.Error
	if !stderrors.As(err, &perr) {
		t.Fatalf("error should be structured, got %T", err)
	}
	if perr.Kind != ptrerrors.KindAllocation || perr.Phase != ptrerrors.PhaseNew {
		t.Fatalf("error = [%s] %s, want [new] allocation", perr.Phase, perr.Kind)
	}
}

func TestNewTracked_NilPayload(t *testing.T) {
	tr := &countingTracker{}
	s, err := NewTracked[resource](tr, nil)
	if err != nil {
		t.Fatalf("nil payload should not error: %v", err)
	}
	if s.Valid() {
		t.Fatal("nil payload should yield an empty handle")
	}
	if tr.registrations.Load() != 0 {
		t.Fatal("nothing should register for a nil payload")
	}
}

func TestNewTracked_NilTracker(t *testing.T) {
	r := newResource(1)
	s, err := NewTracked(nil, r)
	if err != nil {
		t.Fatalf("nil tracker should fall back to New: %v", err)
	}
	if s.Get() != r {
		t.Fatal("handle should own the payload")
	}
	s.Release()
	if r.drops.Load() != 1 {
		t.Fatal("payload should still be dropped once")
	}
}
