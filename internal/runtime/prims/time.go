// Time primitives (spec §4.4 "Time").
package prims

import (
	"time"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("time.now-ms"), func(p *Proc) {
		p.Stack.Push(stack.Int(time.Now().UnixMilli()))
	})
	// time.Sleep parks the calling goroutine, not an OS thread, so this
	// still honors "never blocks the OS thread" (spec §4.3) under the
	// scheduler's one-goroutine-per-strand model.
	register(mangle("time.sleep-ms"), func(p *Proc) {
		ms := p.Stack.Pop().AsInt()
		time.Sleep(time.Duration(ms) * time.Millisecond)
	})
}
