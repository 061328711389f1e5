package scheduler

import "github.com/seqlang/seq/internal/runtime/stack"

// Weave is a bidirectional generator built atop a strand plus a pair of
// channels (spec §4.3 "Weaves (generators)"): the weave's body calls
// `yield(value)` to send on fromWeave and receive on toWeave; the caller
// calls Resume to send on toWeave and receive on fromWeave.
type Weave struct {
	StrandID int64
	toWeave  *Channel
	fromWeave *Channel
}

// SpawnWeave runs body as a strand wired to a fresh pair of channels and
// returns the WeaveCtx handle the generated code stores as a Value.
func (sch *Scheduler) SpawnWeave(parent *stack.Stack, body func(w *Weave)) *Weave {
	w := &Weave{toWeave: NewChannel(), fromWeave: NewChannel()}
	w.StrandID = sch.Spawn(parent, func(s *stack.Stack) {
		body(w)
		w.Cancel()
	})
	return w
}

// Yield is called from inside a weave's body: send value out, then block
// for the caller's next resume value.
func (w *Weave) Yield(value stack.Value) (stack.Value, bool) {
	if !w.fromWeave.Send(value) {
		return stack.Value{}, false
	}
	return w.toWeave.Receive()
}

// Resume sends value in and waits for the weave's next yielded value,
// reporting more=false once the weave has finished and its channels are
// closed (spec §4.3 "strand.resume(handle, value) -> (value, more?)").
func (w *Weave) Resume(value stack.Value) (stack.Value, bool) {
	if !w.toWeave.Send(value) {
		return stack.Value{}, false
	}
	return w.fromWeave.Receive()
}

// Cancel closes both channels (spec §4.3 "strand.weave-cancel(handle):
// closes both channels").
func (w *Weave) Cancel() {
	w.toWeave.Close()
	w.fromWeave.Close()
}

// Drop implements heap.Payload.
func (w *Weave) Drop() {}
