// Channel, yield, and weave-handle primitives (spec §4.3 "Concurrency").
// `spawn` itself is a checker/codegen special case (its quotation operand
// is polymorphic in effect, spec §4.7 "Special cases"), not an entry in
// this flat FFI catalog, so it has no registration here; whatever spawns a
// weave is expected to hand back the Int handle these primitives key on,
// the same way net.go's tcp.accept hands back a connection handle.
package prims

import (
	"sync"

	"github.com/seqlang/seq/internal/runtime/heap"
	"github.com/seqlang/seq/internal/runtime/scheduler"
	"github.com/seqlang/seq/internal/runtime/stack"
)

var (
	weaveMu   sync.Mutex
	weaves    = map[int64]*scheduler.Weave{}
	nextWeave int64 = 1
)

// RegisterWeave stores w under a fresh handle for strand.resume/
// strand.weave-cancel to look up, returned to whatever codegen path spawns
// the weave.
func RegisterWeave(w *scheduler.Weave) int64 {
	weaveMu.Lock()
	defer weaveMu.Unlock()
	h := nextWeave
	nextWeave++
	weaves[h] = w
	return h
}

func lookupWeave(h int64) (*scheduler.Weave, bool) {
	weaveMu.Lock()
	defer weaveMu.Unlock()
	w, ok := weaves[h]
	return w, ok
}

func newChannel() stack.Value {
	return stack.Value{Kind: stack.KindChannel, Ptr: heap.New(scheduler.NewChannel()).Ptr()}
}

func asChannel(v stack.Value) *scheduler.Channel {
	return heap.HeaderAt(v.Ptr).Payload().(*scheduler.Channel)
}

func init() {
	register(mangle("chan.make"), func(p *Proc) { p.Stack.Push(newChannel()) })
	register(mangle("chan.send"), func(p *Proc) {
		ch, val := p.Stack.Pop(), p.Stack.Pop()
		ok := asChannel(ch).Send(val)
		releaseValue(ch)
		p.Stack.Push(stack.Bool(ok))
	})
	register(mangle("chan.receive"), func(p *Proc) {
		ch := p.Stack.Pop()
		val, ok := asChannel(ch).Receive()
		releaseValue(ch)
		if !ok {
			p.Stack.Push(stack.Nil())
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(val)
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("chan.close"), func(p *Proc) {
		ch := p.Stack.Pop()
		asChannel(ch).Close()
		releaseValue(ch)
	})
	register(mangle("yield"), func(p *Proc) { scheduler.Yield() })
	register(mangle("strand.resume"), func(p *Proc) {
		val, h := p.Stack.Pop(), p.Stack.Pop().AsInt()
		w, ok := lookupWeave(h)
		if !ok {
			releaseValue(val)
			p.Stack.Push(stack.Nil())
			p.Stack.Push(stack.Bool(false))
			return
		}
		out, more := w.Resume(val)
		p.Stack.Push(out)
		p.Stack.Push(stack.Bool(more))
	})
	register(mangle("strand.weave-cancel"), func(p *Proc) {
		h := p.Stack.Pop().AsInt()
		if w, ok := lookupWeave(h); ok {
			w.Cancel()
		}
	})
}
