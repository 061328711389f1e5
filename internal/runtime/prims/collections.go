// Variant inspection and List/Map primitives (spec §4.4 "Variant & map
// operations", spec §3 "List", "Map"). List and Map share KindMap at the
// Value level, distinguished by the listAux tag (payloads.go); the checker
// never mixes the two since they're separate Named types statically.
package prims

import "github.com/seqlang/seq/internal/runtime/stack"

func init() {
	register(mangle("variant.tag"), func(p *Proc) {
		v := p.Stack.Pop()
		tag := asVariant(v).Tag
		releaseValue(v)
		p.Stack.Push(stack.Symbol(internSymbol(tag)))
	})

	register(mangle("list.make"), func(p *Proc) { p.Stack.Push(newList(nil)) })
	register(mangle("list.push"), func(p *Proc) {
		item, listVal := p.Stack.Pop(), p.Stack.Pop()
		old := asList(listVal)
		next := make([]stack.Value, len(old.Items)+1)
		copy(next, old.Items)
		next[len(old.Items)] = item
		p.Stack.Push(newList(next))
		releaseValue(listVal)
	})
	register(mangle("list.len"), func(p *Proc) {
		v := p.Stack.Pop()
		n := int64(len(asList(v).Items))
		releaseValue(v)
		p.Stack.Push(stack.Int(n))
	})
	register(mangle("list.get"), func(p *Proc) {
		idx := p.Stack.Pop().AsInt()
		v := p.Stack.Pop()
		items := asList(v).Items
		if idx < 0 || idx >= int64(len(items)) {
			releaseValue(v)
			p.Stack.Push(stack.Nil())
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(dupValue(items[idx]))
		releaseValue(v)
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("list.concat"), func(p *Proc) {
		b, a := p.Stack.Pop(), p.Stack.Pop()
		aItems, bItems := asList(a).Items, asList(b).Items
		merged := make([]stack.Value, 0, len(aItems)+len(bItems))
		merged = append(merged, aItems...)
		merged = append(merged, bItems...)
		for _, v := range merged {
			dupValue(v)
		}
		releaseValue(a)
		releaseValue(b)
		p.Stack.Push(newList(merged))
	})

	register(mangle("map.make"), func(p *Proc) { p.Stack.Push(newMap(nil)) })
	register(mangle("map.set"), func(p *Proc) {
		val, key, mapVal := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
		old := asMap(mapVal)
		next := make([]mapEntry, 0, len(old.Entries)+1)
		replaced := false
		for _, e := range old.Entries {
			if e.Key.Equals(key) {
				next = append(next, mapEntry{Key: e.Key, Val: val})
				replaced = true
				releaseValue(e.Val)
				releaseValue(key)
			} else {
				next = append(next, e)
			}
		}
		if !replaced {
			next = append(next, mapEntry{Key: key, Val: val})
		}
		releaseValue(mapVal)
		p.Stack.Push(newMap(next))
	})
	register(mangle("map.get"), func(p *Proc) {
		key, mapVal := p.Stack.Pop(), p.Stack.Pop()
		for _, e := range asMap(mapVal).Entries {
			if e.Key.Equals(key) {
				p.Stack.Push(dupValue(e.Val))
				releaseValue(mapVal)
				releaseValue(key)
				p.Stack.Push(stack.Bool(true))
				return
			}
		}
		releaseValue(mapVal)
		releaseValue(key)
		p.Stack.Push(stack.Nil())
		p.Stack.Push(stack.Bool(false))
	})
	register(mangle("map.del"), func(p *Proc) {
		key, mapVal := p.Stack.Pop(), p.Stack.Pop()
		old := asMap(mapVal)
		next := make([]mapEntry, 0, len(old.Entries))
		for _, e := range old.Entries {
			if e.Key.Equals(key) {
				releaseValue(e.Key)
				releaseValue(e.Val)
				continue
			}
			next = append(next, e)
		}
		releaseValue(mapVal)
		releaseValue(key)
		p.Stack.Push(newMap(next))
	})
	register(mangle("map.len"), func(p *Proc) {
		v := p.Stack.Pop()
		n := int64(len(asMap(v).Entries))
		releaseValue(v)
		p.Stack.Push(stack.Int(n))
	})
}
