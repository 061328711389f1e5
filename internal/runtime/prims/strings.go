// String manipulation and type-conversion primitives (spec §4.4 "String
// manipulation", "Type conversions").
package prims

import (
	"strconv"
	"strings"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("str.concat"), func(p *Proc) {
		b, a := p.Stack.Pop(), p.Stack.Pop()
		result := newString(asString(a) + asString(b))
		releaseValue(a)
		releaseValue(b)
		p.Stack.Push(result)
	})
	register(mangle("str.len"), func(p *Proc) {
		v := p.Stack.Pop()
		n := int64(len([]rune(asString(v))))
		releaseValue(v)
		p.Stack.Push(stack.Int(n))
	})
	register(mangle("str.substr"), func(p *Proc) {
		length, start := p.Stack.Pop().AsInt(), p.Stack.Pop().AsInt()
		v := p.Stack.Pop()
		runes := []rune(asString(v))
		releaseValue(v)
		lo := clamp(start, 0, int64(len(runes)))
		hi := clamp(lo+length, lo, int64(len(runes)))
		p.Stack.Push(newString(string(runes[lo:hi])))
	})
	register(mangle("str.find"), func(p *Proc) {
		needle, hay := p.Stack.Pop(), p.Stack.Pop()
		idx := strings.Index(asString(hay), asString(needle))
		releaseValue(hay)
		releaseValue(needle)
		if idx < 0 {
			p.Stack.Push(stack.Int(0))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(stack.Int(int64(idx)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("str.split"), func(p *Proc) {
		sep, s := p.Stack.Pop(), p.Stack.Pop()
		parts := strings.Split(asString(s), asString(sep))
		releaseValue(s)
		releaseValue(sep)
		items := make([]stack.Value, len(parts))
		for i, part := range parts {
			items[i] = newString(part)
		}
		p.Stack.Push(newList(items))
	})
	register(mangle("str.join"), func(p *Proc) {
		sep, listVal := p.Stack.Pop(), p.Stack.Pop()
		list := asList(listVal)
		parts := make([]string, len(list.Items))
		for i, item := range list.Items {
			parts[i] = asString(item)
		}
		joined := strings.Join(parts, asString(sep))
		releaseValue(listVal)
		releaseValue(sep)
		p.Stack.Push(newString(joined))
	})
	register(mangle("str.upper"), strMap(strings.ToUpper))
	register(mangle("str.lower"), strMap(strings.ToLower))
	register(mangle("str.trim"), strMap(strings.TrimSpace))
	register(mangle("str.char-at"), func(p *Proc) {
		idx := p.Stack.Pop().AsInt()
		v := p.Stack.Pop()
		runes := []rune(asString(v))
		releaseValue(v)
		if idx < 0 || idx >= int64(len(runes)) {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(runes[idx])))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("str.eq"), func(p *Proc) {
		b, a := p.Stack.Pop(), p.Stack.Pop()
		eq := asString(a) == asString(b)
		releaseValue(a)
		releaseValue(b)
		p.Stack.Push(stack.Bool(eq))
	})
	register(mangle("str.to-symbol"), func(p *Proc) {
		v := p.Stack.Pop()
		id := internSymbol(asString(v))
		releaseValue(v)
		p.Stack.Push(stack.Symbol(id))
	})

	register(mangle("i.to-f"), func(p *Proc) { p.Stack.Push(stack.Float(float64(p.Stack.Pop().AsInt()))) })
	register(mangle("f.to-i"), func(p *Proc) { p.Stack.Push(stack.Int(int64(p.Stack.Pop().AsFloat()))) })
	register(mangle("i.to-str"), func(p *Proc) { p.Stack.Push(newString(strconv.FormatInt(p.Stack.Pop().AsInt(), 10))) })
	register(mangle("f.to-str"), func(p *Proc) { p.Stack.Push(newString(strconv.FormatFloat(p.Stack.Pop().AsFloat(), 'g', -1, 64))) })
	register(mangle("str.to-i"), func(p *Proc) {
		v := p.Stack.Pop()
		n, err := strconv.ParseInt(asString(v), 10, 64)
		releaseValue(v)
		p.Stack.Push(stack.Int(n))
		p.Stack.Push(stack.Bool(err == nil))
	})
	register(mangle("str.to-f"), func(p *Proc) {
		v := p.Stack.Pop()
		n, err := strconv.ParseFloat(asString(v), 64)
		releaseValue(v)
		p.Stack.Push(stack.Float(n))
		p.Stack.Push(stack.Bool(err == nil))
	})
	register(mangle("sym.to-str"), func(p *Proc) {
		v := p.Stack.Pop()
		p.Stack.Push(newString(symbolName(v.Data)))
	})
}

func strMap(f func(string) string) Func {
	return func(p *Proc) {
		v := p.Stack.Pop()
		result := f(asString(v))
		releaseValue(v)
		p.Stack.Push(newString(result))
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
