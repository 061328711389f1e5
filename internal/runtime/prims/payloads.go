package prims

import (
	"sync"

	"github.com/seqlang/seq/internal/runtime/heap"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// StringPayload backs a KindString Value (spec §4.1 "reference-counted ...
// String"). Go's string type is itself immutable and already holds its own
// backing array, so there is nothing further for Drop to release.
type StringPayload struct{ S string }

func (*StringPayload) Drop() {}

func newString(s string) stack.Value {
	return stack.Value{Kind: stack.KindString, Ptr: heap.New(&StringPayload{S: s}).Ptr()}
}

func asString(v stack.Value) string {
	return heap.HeaderAt(v.Ptr).Payload().(*StringPayload).S
}

// ListPayload backs the list.* primitives. Lists are append-only from the
// Seq surface (list.push returns a new handle), so a fresh payload is
// allocated on every push rather than mutating in place.
type ListPayload struct{ Items []stack.Value }

func (p *ListPayload) Drop() {
	for _, v := range p.Items {
		releaseValue(v)
	}
}

func newList(items []stack.Value) stack.Value {
	return stack.Value{Kind: stack.KindMap, Ptr: heap.New(&ListPayload{Items: items}).Ptr(), Aux: listAux}
}

// listAux distinguishes a List handle from a Map handle, both of which
// otherwise share KindMap (spec §3 groups them as the two container kinds);
// the checker already tells them apart statically via their Named type, so
// the runtime only needs a cheap way for dupValue/releaseValue and this
// package's own accessors to route to the right payload type.
const listAux = 1

func isList(v stack.Value) bool { return v.Kind == stack.KindMap && v.Aux == listAux }

func asList(v stack.Value) *ListPayload {
	return heap.HeaderAt(v.Ptr).Payload().(*ListPayload)
}

// mapEntry is one key/value pair. Structural equality (spec §3 "keys equal
// by structural equality") means lookups are a linear scan through
// Value.Equals rather than a Go map keyed on Value, since two structurally
// equal Strings are backed by different heap headers and so different
// Value.Ptr bit patterns.
type mapEntry struct{ Key, Val stack.Value }

// MapPayload backs map.* primitives.
type MapPayload struct{ Entries []mapEntry }

func (p *MapPayload) Drop() {
	for _, e := range p.Entries {
		releaseValue(e.Key)
		releaseValue(e.Val)
	}
}

func newMap(entries []mapEntry) stack.Value {
	return stack.Value{Kind: stack.KindMap, Ptr: heap.New(&MapPayload{Entries: entries}).Ptr()}
}

func asMap(v stack.Value) *MapPayload {
	return heap.HeaderAt(v.Ptr).Payload().(*MapPayload)
}

// VariantPayload backs union values (spec §3 "Union declaration"). Tag is
// kept as the variant's name directly; codegen's IR path compares tags via
// interned Symbol ids instead (control.go), but the Go-side interpreter
// that exercises this package has no reason to intern what it can compare
// with a plain string equality.
type VariantPayload struct {
	Tag    string
	Fields []stack.Value
}

func (p *VariantPayload) Drop() {
	for _, v := range p.Fields {
		releaseValue(v)
	}
}

func newVariant(tag string, fields []stack.Value) stack.Value {
	return stack.Value{Kind: stack.KindVariant, Ptr: heap.New(&VariantPayload{Tag: tag, Fields: fields}).Ptr()}
}

func asVariant(v stack.Value) *VariantPayload {
	return heap.HeaderAt(v.Ptr).Payload().(*VariantPayload)
}

// Symbol interning: str.to-symbol/sym.to-str need a name <-> id mapping
// (spec §3 "Symbol: an interned, compile-time-unique name"). Interning
// happens at runtime here since str.to-symbol's argument isn't known until
// run time, unlike a literal Symbol the code generator interns at compile
// time (literals.go's seq_intern_symbol).
var (
	internMu     sync.Mutex
	internByID   = map[uint64]string{}
	internByName = map[string]uint64{}
	internNext   uint64 = 1
)

func internSymbol(name string) uint64 {
	internMu.Lock()
	defer internMu.Unlock()
	if id, ok := internByName[name]; ok {
		return id
	}
	id := internNext
	internNext++
	internByName[name] = id
	internByID[id] = name
	return id
}

func symbolName(id uint64) string {
	internMu.Lock()
	defer internMu.Unlock()
	return internByID[id]
}
