// Package ptr implements the reference-counting core: the control block
// and the Shared, Weak, and Unique handle types.
//
// # Counting Protocol
//
// Every owned payload has exactly one control block carrying two atomic
// counters:
//
//	strong  number of live Shared handles; the payload lives while > 0
//	weak    number of stakes keeping the control block itself alive
//
// The weak counter is seeded to 1 at creation: all strong owners
// collectively hold one weak stake. When the last strong stake is released
// the payload is destroyed and that collective stake is returned; the
// control block survives until real Weak handles (if any) are gone too.
//
// All transitions are lock-free. The decrement and the zero test share a
// single atomic add, so exactly one releasing goroutine observes "this was
// the last owner" and destroys the payload, no matter how many release
// concurrently.
//
// # Handles Are Stakes
//
//	s := ptr.New(&buf)       // strong = 1
//	c := s.Clone()           // strong = 2
//	w := s.Downgrade()       // weak handle; strong unchanged
//
//	c.Release()              // strong = 1
//	s.Release()              // strong = 0: buf dropped, w expired
//
//	if b := w.Lock(); !b.Valid() {
//	    // payload already gone
//	}
//
// Promotion (Lock) is a compare-and-swap retry loop: the zero check and the
// increment are one atomic step, so a concurrent final release can never
// slip between them and hand out a handle over a freed payload.
//
// # Cleanup
//
// A payload that implements sharedptr.Dropper has Drop called exactly once,
// on whichever goroutine releases the last strong stake. Payloads without
// one are simply detached and left to the collector.
//
// # Misuse
//
// Get on an empty handle returns nil and is deliberately unchecked.
// Releasing the same stake twice panics: the counters are corrupted at that
// point and continuing would double-drop someone else's payload.
package ptr
