// Boolean and bitwise-integer primitives (spec §4.4 "Bitwise & boolean").
package prims

import "github.com/seqlang/seq/internal/runtime/stack"

func init() {
	register(mangle("b.and"), func(p *Proc) { b, a := p.Stack.Pop().AsBool(), p.Stack.Pop().AsBool(); p.Stack.Push(stack.Bool(a && b)) })
	register(mangle("b.or"), func(p *Proc) { b, a := p.Stack.Pop().AsBool(), p.Stack.Pop().AsBool(); p.Stack.Push(stack.Bool(a || b)) })
	register(mangle("b.xor"), func(p *Proc) { b, a := p.Stack.Pop().AsBool(), p.Stack.Pop().AsBool(); p.Stack.Push(stack.Bool(a != b)) })
	register(mangle("b.not"), func(p *Proc) { p.Stack.Push(stack.Bool(!p.Stack.Pop().AsBool())) })

	register(mangle("bit.and"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a & b)) })
	register(mangle("bit.or"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a | b)) })
	register(mangle("bit.xor"), func(p *Proc) { b, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a ^ b)) })
	register(mangle("bit.shl"), func(p *Proc) { n, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a << uint(n))) })
	register(mangle("bit.shr"), func(p *Proc) { n, a := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt(); p.Stack.Push(stack.Int(a >> uint(n))) })
	register(mangle("bit.not"), func(p *Proc) { p.Stack.Push(stack.Int(^p.Stack.Pop().AsInt())) })
}
