// Package stack implements the runtime's tagged-value contiguous stack
// (spec §4.1 "Value & Stack Model"). Value is the Go-side counterpart of the
// 40-byte slot the code generator emits `getelementptr`/load/store IR
// against, though one word smaller (see Value); it also backs the interpreter the checker's tests exercise
// without a full LLVM toolchain.
package stack

import (
	"math"
	"unsafe"
)

// Kind tags a Value's active representation.
type Kind uint8

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindSymbol
	KindString
	KindVariant
	KindMap
	KindQuotation
	KindClosure
	KindChannel
	KindWeaveCtx
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindSymbol:
		return "Symbol"
	case KindString:
		return "String"
	case KindVariant:
		return "Variant"
	case KindMap:
		return "Map"
	case KindQuotation:
		return "Quotation"
	case KindClosure:
		return "Closure"
	case KindChannel:
		return "Channel"
	case KindWeaveCtx:
		return "WeaveCtx"
	default:
		return "?"
	}
}

// Value is the runtime's tagged union: 1 tag byte (padded to 8), one 8-byte
// data word, a heap pointer, and an auxiliary word used by the few kinds
// that need a second payload (a Quotation's impl function pointer alongside
// its wrapper in Ptr, or a String's arena-provenance bit). That is 32
// bytes, one word smaller than the 40-byte slot the generated IR indexes
// into.
type Value struct {
	Kind Kind
	_    [7]byte
	Data uint64         // int64/float64 bits, bool 0/1, interned symbol id
	Ptr  unsafe.Pointer // refcounted heap header, or a Quotation's wrapper fn
	Aux  uint64         // Quotation/Closure impl fn ptr; String arena bit
}

func Nil() Value { return Value{Kind: KindNil} }

func Int(v int64) Value { return Value{Kind: KindInt, Data: uint64(v)} }

func Float(v float64) Value {
	return Value{Kind: KindFloat, Data: math.Float64bits(v)}
}

func Bool(v bool) Value {
	var d uint64
	if v {
		d = 1
	}
	return Value{Kind: KindBool, Data: d}
}

func Symbol(id uint64) Value { return Value{Kind: KindSymbol, Data: id} }

func (v Value) AsInt() int64     { return int64(v.Data) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.Data) }
func (v Value) AsBool() bool     { return v.Data != 0 }

func (v Value) IsNil() bool  { return v.Kind == KindNil }
func (v Value) IsHeap() bool {
	switch v.Kind {
	case KindString, KindVariant, KindMap, KindClosure, KindChannel, KindWeaveCtx:
		return true
	default:
		return false
	}
}

// Equals implements structural equality (spec §3: "keys equal by structural
// equality"); Int/Float compare across kinds the way the code generator's
// inline comparison primitives do.
func (v Value) Equals(o Value) bool {
	if v.Kind != o.Kind {
		if v.Kind == KindInt && o.Kind == KindFloat {
			return float64(v.AsInt()) == o.AsFloat()
		}
		if v.Kind == KindFloat && o.Kind == KindInt {
			return v.AsFloat() == float64(o.AsInt())
		}
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindInt, KindBool, KindSymbol, KindFloat:
		return v.Data == o.Data
	default:
		return v.Ptr == o.Ptr
	}
}
