package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/shared-ptr/ptr"
	"github.com/wippyai/shared-ptr/registry"
)

func main() {
	var (
		workers     = flag.Int("workers", 8, "Concurrent worker goroutines")
		objects     = flag.Int("objects", 32, "Shared objects under churn")
		duration    = flag.Duration("duration", 3*time.Second, "How long to run")
		capacity    = flag.Int("capacity", 0, "Registry live-block limit (0 = unlimited)")
		verbose     = flag.Bool("v", false, "Verbose registry logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		registry.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*objects, *capacity); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*workers, *objects, *duration, *capacity); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// object is the stress payload; drops are counted to verify
// destroy-exactly-once at the end of a run.
type object struct {
	drops *atomic.Int64
	id    int
}

func (o *object) Drop() { o.drops.Add(1) }

// workload churns a fixed set of shared objects from several goroutines:
// clone, downgrade, lock, release, and occasional anchor replacement.
type workload struct {
	reg     *registry.Registry
	drops   atomic.Int64
	clones  atomic.Int64
	locks   atomic.Int64
	misses  atomic.Int64
	swaps   atomic.Int64
	mu      sync.Mutex
	anchors []ptr.Shared[object]
	nextID  int
}

func newWorkload(reg *registry.Registry, objects int) (*workload, error) {
	w := &workload{reg: reg}
	for i := 0; i < objects; i++ {
		s, err := ptr.NewTracked(reg, &object{id: i, drops: &w.drops})
		if err != nil {
			w.stop()
			return nil, err
		}
		w.anchors = append(w.anchors, s)
	}
	w.nextID = objects
	return w, nil
}

// step runs one random operation against one random anchor.
func (w *workload) step(rng *rand.Rand) {
	w.mu.Lock()
	if len(w.anchors) == 0 {
		w.mu.Unlock()
		return
	}
	i := rng.Intn(len(w.anchors))
	c := w.anchors[i].Clone()
	w.mu.Unlock()
	w.clones.Add(1)

	wk := c.Downgrade()
	if b := wk.Lock(); b.Valid() {
		w.locks.Add(1)
		b.Release()
	} else {
		w.misses.Add(1)
	}
	wk.Release()

	// Occasionally retire the anchor and grow a replacement, so weak
	// handles elsewhere can genuinely expire.
	if rng.Intn(64) == 0 {
		if s, err := ptr.NewTracked(w.reg, w.newObject()); err == nil {
			w.mu.Lock()
			old := w.anchors[i].Move()
			w.anchors[i] = s
			w.mu.Unlock()
			old.Release()
			w.swaps.Add(1)
		}
	}

	c.Release()
}

func (w *workload) newObject() *object {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.mu.Unlock()
	return &object{id: id, drops: &w.drops}
}

// stop releases every anchor.
func (w *workload) stop() {
	w.mu.Lock()
	anchors := w.anchors
	w.anchors = nil
	w.mu.Unlock()
	for i := range anchors {
		anchors[i].Release()
	}
}

func run(workers, objects int, duration time.Duration, capacity int) error {
	reg := registry.NewWithCapacity(capacity)

	w, err := newWorkload(reg, objects)
	if err != nil {
		return fmt.Errorf("seed workload: %w", err)
	}

	fmt.Printf("ptrwatch: %d workers over %d objects for %s\n", workers, objects, duration)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				w.step(rng)
			}
		}(int64(i) + 1)
	}
	wg.Wait()

	w.stop()

	stats := reg.Stats()
	fmt.Printf("\nclones:       %d\n", w.clones.Load())
	fmt.Printf("locks:        %d ok, %d expired\n", w.locks.Load(), w.misses.Load())
	fmt.Printf("anchor swaps: %d\n", w.swaps.Load())
	fmt.Printf("blocks:       %d created, %d freed (peak live %d)\n",
		stats.Created, stats.BlocksFreed, stats.PeakLive)
	fmt.Printf("drops:        %d (payloads freed %d)\n", w.drops.Load(), stats.PayloadsFreed)

	if err := reg.Close(); err != nil {
		leaks := multierr.Errors(err)
		fmt.Printf("\nLEAKED %d blocks:\n", len(leaks))
		for _, l := range leaks {
			fmt.Printf("  %v\n", l)
		}
		return fmt.Errorf("%d blocks leaked", len(leaks))
	}

	if got, want := w.drops.Load(), stats.PayloadsFreed; uint64(got) != want {
		return fmt.Errorf("drop count %d does not match payloads freed %d", got, want)
	}
	fmt.Println("\nno leaks, every payload dropped exactly once")
	return nil
}
