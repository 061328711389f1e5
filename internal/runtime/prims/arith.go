// Integer and floating-point arithmetic/comparison primitives (spec §4.4
// "Arithmetic & comparison"). Each pops its operands in declaration order
// (right operand on top) and pushes the result(s), mirroring stackops.go's
// register-one-closure-per-name shape.
package prims

import (
	"math"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("i.+"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a + b)) })
	register(mangle("i.-"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a - b)) })
	register(mangle("i.*"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a * b)) })
	register(mangle("i./"), func(p *Proc) {
		b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		if b == 0 {
			p.Stack.Push(stack.Int(0))
			return
		}
		p.Stack.Push(stack.Int(a / b))
	})
	register(mangle("i.%"), func(p *Proc) {
		b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		if b == 0 {
			p.Stack.Push(stack.Int(0))
			return
		}
		p.Stack.Push(stack.Int(a % b))
	})
	// i./-flag reports division-by-zero via the trailing Bool instead of
	// silently returning 0, for callers that need to distinguish the two.
	register(mangle("i./-flag"), func(p *Proc) {
		b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		if b == 0 {
			p.Stack.Push(stack.Int(0))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(stack.Int(a / b))
		p.Stack.Push(stack.Bool(true))
	})

	register(mangle("i.="), cmpI(func(a, b int64) bool { return a == b }))
	register(mangle("i.<>"), cmpI(func(a, b int64) bool { return a != b }))
	register(mangle("i.<"), cmpI(func(a, b int64) bool { return a < b }))
	register(mangle("i.<="), cmpI(func(a, b int64) bool { return a <= b }))
	register(mangle("i.>"), cmpI(func(a, b int64) bool { return a > b }))
	register(mangle("i.>="), cmpI(func(a, b int64) bool { return a >= b }))

	register(mangle("i.neg"), func(p *Proc) { p.Stack.Push(stack.Int(-p.Stack.Pop().AsInt())) })
	register(mangle("i.abs"), func(p *Proc) {
		v := p.Stack.Pop().AsInt()
		if v < 0 {
			v = -v
		}
		p.Stack.Push(stack.Int(v))
	})

	register(mangle("f.+"), func(p *Proc) { b, a := p.Stack.Pop().AsFloat(), p.Stack.Pop().AsFloat(); p.Stack.Push(stack.Float(a + b)) })
	register(mangle("f.-"), func(p *Proc) { b, a := p.Stack.Pop().AsFloat(), p.Stack.Pop().AsFloat(); p.Stack.Push(stack.Float(a - b)) })
	register(mangle("f.*"), func(p *Proc) { b, a := p.Stack.Pop().AsFloat(), p.Stack.Pop().AsFloat(); p.Stack.Push(stack.Float(a * b)) })
	register(mangle("f./"), func(p *Proc) { b, a := p.Stack.Pop().AsFloat(), p.Stack.Pop().AsFloat(); p.Stack.Push(stack.Float(a / b)) })

	register(mangle("f.="), cmpF(func(a, b float64) bool { return a == b }))
	register(mangle("f.<"), cmpF(func(a, b float64) bool { return a < b }))
	register(mangle("f.<="), cmpF(func(a, b float64) bool { return a <= b }))
	register(mangle("f.>"), cmpF(func(a, b float64) bool { return a > b }))
	register(mangle("f.>="), cmpF(func(a, b float64) bool { return a >= b }))

	register(mangle("f.sqrt"), func(p *Proc) { p.Stack.Push(stack.Float(math.Sqrt(p.Stack.Pop().AsFloat()))) })
	register(mangle("f.floor"), func(p *Proc) { p.Stack.Push(stack.Float(math.Floor(p.Stack.Pop().AsFloat()))) })
	register(mangle("f.ceil"), func(p *Proc) { p.Stack.Push(stack.Float(math.Ceil(p.Stack.Pop().AsFloat()))) })
}

func cmpI(pred func(a, b int64) bool) Func {
	return func(p *Proc) {
		b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		p.Stack.Push(stack.Bool(pred(a, b)))
	}
}

func cmpF(pred func(a, b float64) bool) Func {
	return func(p *Proc) {
		b, a := p.Stack.Pop().AsFloat(), p.Stack.Pop().AsFloat()
		p.Stack.Push(stack.Bool(pred(a, b)))
	}
}
