// Package sharedptr provides a reference-counted, lock-free ownership
// pointer and its non-owning weak companion, with deterministic release of
// the owned value independent of the garbage collector.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	sharedptr/           Root package with the Dropper and Tracker contracts
//	├── ptr/             Control block and the Shared, Weak, Unique handles
//	├── registry/        Live-block tracking, observers, leak detection
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Create a shared owner, hand out copies, and let the last release free the
// payload:
//
//	s := ptr.New(&Conn{Addr: "db-1"})
//	defer s.Release()
//
//	c := s.Clone() // second strong owner
//	go func() {
//	    defer c.Release()
//	    c.Get().Ping()
//	}()
//
// # Ownership Model
//
// A Shared value is one strong ownership stake. Stakes are duplicated only
// through Clone (or a successful Weak promotion) and returned exactly once
// through Release. Plain Go assignment copies the struct but not the stake;
// treat handles like os.File descriptors, not like plain pointers.
//
// The payload stays alive while at least one strong stake exists. When the
// last one is released the payload is detached and, if it implements
// Dropper, dropped. Weak handles never extend the payload's life; they can
// only report expiration or attempt promotion:
//
//	w := s.Downgrade()
//	if b := w.Lock(); b.Valid() {
//	    defer b.Release()
//	    b.Get().Ping()
//	}
//
// Promotion uses a compare-and-swap loop and either succeeds atomically or
// returns an empty handle; it never blocks and never races a concurrent
// release into a freed payload.
//
// # Cycles
//
// The counters cannot detect ownership cycles. Two objects holding Shared
// handles to each other never reach zero; break back-references with a Weak
// handle.
//
// # Tracking
//
// Construction through ptr.NewTracked registers the control block with a
// Tracker such as registry.Registry, which observes every counter
// transition, enforces an optional capacity, and reports still-live blocks
// as leaks when closed.
package sharedptr
