package scheduler

import "github.com/seqlang/seq/internal/runtime/stack"

// Channel is an MPMC channel of Values (spec §4.3). It wraps an unbuffered
// Go channel so that Send/Receive suspend only the calling goroutine, never
// the OS thread (spec: "Channel operations never block the OS thread"). It
// holds no queue of its own: each Send waits until a receiver takes the
// value.
type Channel struct {
	ch     chan stack.Value
	closed chan struct{}
}

// NewChannel allocates a channel backed by an unbuffered Go channel paired
// with a closed-signal so Send past Close reports false rather than
// panicking.
func NewChannel() *Channel {
	return &Channel{ch: make(chan stack.Value), closed: make(chan struct{})}
}

// Send delivers v, returning false if the channel is closed (spec §4.3
// "returns false on a closed channel"). It blocks until a receiver takes v
// or the channel is closed.
func (c *Channel) Send(v stack.Value) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.ch <- v:
		return true
	case <-c.closed:
		return false
	}
}

// Receive waits for a value, returning ok=false once the channel is
// closed and drained (spec §4.3 "chan.receive(channel_id) -> (value, ok);
// suspends if empty; ok = false when the channel is closed and drained").
func (c *Channel) Receive() (stack.Value, bool) {
	select {
	case v := <-c.ch:
		return v, true
	case <-c.closed:
		select {
		case v := <-c.ch:
			return v, true
		default:
			return stack.Value{}, false
		}
	}
}

// Close marks the channel closed; no further sends succeed, and
// receivers drain whatever was already in flight before seeing ok=false
// (spec §4.3 "chan.close(channel_id): no further sends succeed; receivers
// drain the queue then see ok = false").
func (c *Channel) Close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

// Drop implements heap.Payload: a Channel has no inner Values to release.
func (c *Channel) Drop() {}
