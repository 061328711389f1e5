// Package heap implements the runtime's reference-counted heap payloads
// (spec §4.1 "Reference counting") for String, Variant, Map, Closure,
// Channel, and WeaveCtx values, plus the SEQ_LEAK_CHECK supplement (spec
// §1 SUPPLEMENTED FEATURES) that tracks every live allocation's call site
// so a program that exits with unreleased references can be diagnosed
// instead of just silently leaking.
package heap

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/seqlang/seq/internal/config"
)

// Payload is anything a Header can own: a Go-side representation of a
// String, Variant, Map, Closure, Channel, or WeaveCtx. Drop is called
// exactly once, when the refcount reaches zero, and must recursively
// release any Values the payload itself holds (spec: "drop decrements and,
// on reaching zero, recursively drops inner Values").
type Payload interface {
	Drop()
}

// Header is the block every heap-backed Value.Ptr points at: an atomic
// refcount plus the payload (spec §4.1 "a pointer to a header { atomic
// refcount, payload }").
type Header struct {
	refcount int64
	payload  Payload
	site     string // allocation call site, recorded only under leak-check
}

var (
	tracked   sync.Map // *Header -> struct{}, populated only when leak-check is on
	liveCount int64
)

// New allocates a refcounted header with an initial count of 1.
func New(p Payload) *Header {
	h := &Header{refcount: 1, payload: p}
	if config.LeakCheck() {
		h.site = callerSite()
		tracked.Store(h, struct{}{})
		atomic.AddInt64(&liveCount, 1)
	}
	return h
}

func callerSite() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// Dup increments the refcount (spec: "dup increments the count
// atomically").
func (h *Header) Dup() {
	atomic.AddInt64(&h.refcount, 1)
}

// Drop decrements the refcount and, on reaching zero, invokes the
// payload's Drop and unregisters the header from leak tracking.
func (h *Header) Drop() {
	if atomic.AddInt64(&h.refcount, -1) == 0 {
		h.payload.Drop()
		if config.LeakCheck() {
			tracked.Delete(h)
			atomic.AddInt64(&liveCount, -1)
		}
	}
}

// Refcount returns the current count, for tests and diagnostics.
func (h *Header) Refcount() int64 { return atomic.LoadInt64(&h.refcount) }

// Ptr returns the unsafe.Pointer a stack.Value stores for this header.
func (h *Header) Ptr() unsafe.Pointer { return unsafe.Pointer(h) }

// HeaderAt reinterprets a stack.Value's Ptr field as the Header it was
// allocated from. Callers must only call this on Values where IsHeap() is
// true; the code generator never emits a heap-kind tag without having
// allocated through New.
func HeaderAt(ptr unsafe.Pointer) *Header { return (*Header)(ptr) }

// Payload returns the header's owned payload, so a caller that knows the
// concrete Value kind (and so the concrete Payload type New was given) can
// type-assert back to it.
func (h *Header) Payload() Payload { return h.payload }

// LiveCount returns the number of headers currently tracked under
// leak-check mode. Zero at clean process exit is the invariant spec §5
// describes as checkable: "every refcounted allocation has reached zero
// and been freed".
func LiveCount() int64 { return atomic.LoadInt64(&liveCount) }

// Report lists every still-live allocation's call site, for SEQ_LEAK_CHECK
// diagnostics printed at process exit.
func Report() []string {
	var out []string
	tracked.Range(func(k, _ any) bool {
		h := k.(*Header)
		out = append(out, fmt.Sprintf("%s (refcount=%d)", h.site, h.Refcount()))
		return true
	})
	return out
}
