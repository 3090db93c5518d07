// Package registry provides observable lifetime tracking for control
// blocks created through ptr.NewTracked.
//
// # Tracking
//
// A Registry implements sharedptr.Tracker. Blocks register at
// construction and deregister when fully freed; in between, every counter
// transition updates the registry's view:
//
//	reg := registry.New()
//
//	s, err := ptr.NewTracked(reg, &Conn{})
//	if err != nil {
//	    // registry refused; the payload was already dropped
//	}
//
//	reg.Len()      // live blocks
//	reg.Snapshot() // per-block counts, ordered by ID
//
// # Capacity
//
// NewWithCapacity bounds the number of live blocks. At the limit,
// Register returns a capacity error and ptr.NewTracked fails with an
// allocation error after dropping the in-flight payload. This is the
// library's stand-in for heap exhaustion, which Go cannot express.
//
// # Observers
//
// Register observers to follow block lifecycles:
//
//	reg.Subscribe(obs) // obs.OnBlockEvent(ev) per transition
//
// Events arrive on whatever goroutine performed the transition; observers
// must not block and must not release handles from the callback.
//
// # Leak Detection
//
// Close refuses further registrations and returns one structured leak
// error per still-live block, combined with multierr:
//
//	if err := reg.Close(); err != nil {
//	    for _, e := range multierr.Errors(err) {
//	        log.Println(e) // [registry] leak block 7: payload *main.Conn - ...
//	    }
//	}
package registry
