// Package scheduler implements the runtime's concurrency core (spec §4.3
// "Scheduler"): M worker OS threads cooperatively running N strands
// (stackful coroutines), CSP channels, and generator-style weaves. Each
// strand is modeled as a goroutine paired with its own Stack and Arena;
// the Go runtime's own M:N goroutine scheduler stands in for the
// work-stealing pool spec §5 describes, since Go goroutines already give
// the contiguous-stack, migrate-between-threads behavior the spec asks
// for without a hand-rolled stack-switching implementation.
package scheduler

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seqlang/seq/internal/config"
	"github.com/seqlang/seq/internal/runtime/arena"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// StrandFunc is a compiled word's `(ptr) -> ptr` entry point, modeled here
// as a function from an initial Stack to its final Stack. Generated code
// calls into the scheduler-managed strand body through this shape.
type StrandFunc func(s *stack.Stack)

// Strand is one stackful coroutine (spec §4.3 "Model"): its own Stack,
// Arena, and identifier.
type Strand struct {
	ID    int64
	stack *stack.Stack
	arena *arena.Arena
	done  chan struct{}
	alive int32
}

// Scheduler runs strands over a fixed pool of worker goroutines and owns
// the global strand table used by strand.resume and the watchdog.
type Scheduler struct {
	mu      sync.Mutex
	strands map[int64]*Strand
	nextID  int64

	work chan func()

	watchdogLast sync.Map // strand id -> time.Time of last observed progress
}

// New creates a Scheduler with one worker goroutine per CPU and a work
// queue holding up to config.PoolCapacity pending strand bodies, and starts
// the watchdog if SEQ_WATCHDOG_SECS is set (spec SUPPLEMENTED FEATURES:
// watchdog over SIGQUIT).
func New() *Scheduler {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	sch := &Scheduler{
		strands: make(map[int64]*Strand),
		work:    make(chan func(), config.PoolCapacity()),
	}
	for i := 0; i < workers; i++ {
		go sch.workerLoop()
	}
	if config.WatchdogSecs() > 0 {
		go sch.watchdogLoop()
	}
	return sch
}

func (sch *Scheduler) workerLoop() {
	for fn := range sch.work {
		fn()
	}
}

// Spawn clones the parent stack into a new Strand and schedules its body
// to run (spec §4.3 "strand.spawn ... clones the parent stack to the
// child"). Returns the child's identifier.
func (sch *Scheduler) Spawn(parent *stack.Stack, body StrandFunc) int64 {
	child := cloneStack(parent)
	id := atomic.AddInt64(&sch.nextID, 1)
	st := &Strand{ID: id, stack: child, arena: arena.New(), done: make(chan struct{}), alive: 1}

	sch.mu.Lock()
	sch.strands[id] = st
	sch.mu.Unlock()
	sch.watchdogLast.Store(id, time.Now())

	sch.work <- func() {
		defer close(st.done)
		defer atomic.StoreInt32(&st.alive, 0)
		defer func() {
			if st.arena.ShouldReset() {
				st.arena.Reset()
			}
			sch.mu.Lock()
			delete(sch.strands, id)
			sch.mu.Unlock()
		}()
		body(st.stack)
	}
	return id
}

// cloneStack copies every live slot into a freshly allocated Stack, giving
// the spawned strand its own independent copy of the parent's stack.
func cloneStack(parent *stack.Stack) *stack.Stack {
	n := parent.Len()
	child := stack.New(n + stack.GrowthIncrement)
	for i := n - 1; i >= 0; i-- {
		child.Push(parent.Peek(i))
	}
	return child
}

// Resume blocks until strand id finishes and reports whether it was found
// (spec §4.3 primitive `strand.resume(id) -> (value, ok)`; value transport
// is left to the caller since this package is value-shape agnostic).
func (sch *Scheduler) Resume(id int64) bool {
	sch.mu.Lock()
	st, ok := sch.strands[id]
	sch.mu.Unlock()
	if !ok {
		return false
	}
	<-st.done
	return true
}

// WeaveCancel clears strand id's alive flag. Nothing in the scheduler reads
// that flag, so the strand is not stopped: its body keeps running until it
// returns.
func (sch *Scheduler) WeaveCancel(id int64) {
	sch.mu.Lock()
	st, ok := sch.strands[id]
	sch.mu.Unlock()
	if ok {
		atomic.StoreInt32(&st.alive, 0)
	}
}

// Yield cooperatively hands off the OS thread, one of the blocking
// primitives spec §4.3 lists as a suspension point.
func Yield() { runtime.Gosched() }

// Touch records that strand id is making progress, resetting its
// watchdog deadline. Generated code calls this at each suspension point.
func (sch *Scheduler) Touch(id int64) {
	sch.watchdogLast.Store(id, time.Now())
}

// watchdogLoop polls every SEQ_WATCHDOG_INTERVAL seconds for strands that
// haven't touched in over SEQ_WATCHDOG_SECS and prints a message for each;
// with SEQ_WATCHDOG_ACTION=kill it also calls WeaveCancel on the strand
// (spec SUPPLEMENTED FEATURES).
func (sch *Scheduler) watchdogLoop() {
	interval := time.Duration(config.WatchdogInterval()) * time.Second
	limit := time.Duration(config.WatchdogSecs()) * time.Second
	for range time.Tick(interval) {
		now := time.Now()
		sch.watchdogLast.Range(func(k, v any) bool {
			last := v.(time.Time)
			if now.Sub(last) < limit {
				return true
			}
			id := k.(int64)
			switch config.Watchdog() {
			case config.WatchdogKill:
				fmt.Printf("seq: watchdog killing stalled strand %d\n", id)
				sch.WeaveCancel(id)
			default:
				fmt.Printf("seq: watchdog: strand %d has not progressed in over %s\n", id, limit)
			}
			return true
		})
	}
}
