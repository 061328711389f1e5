package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/runtime/stack"
)

// inlineOp emits IR for a primitive directly into block b rather than
// calling out to the runtime (spec §4.8 "Inline primitives ... emit IR
// instructions directly, avoiding an FFI call. This is a major performance
// lever"). Every op here only rearranges/stores slots already on the
// stack; none suspends, matching spec §5 "arithmetic, stack shuffling ...
// do not [suspend]".
type inlineOp func(g *Generator, b *ir.Block, stackPtr value.Value)

// inlineTable is the set of primitive names spec §4.8 calls out as inline
// candidates: "Integer arithmetic, integer and float comparisons, boolean
// and bitwise operations, stack shuffles, literal pushes". Names follow the
// `i.`/`f.` category prefixes used throughout spec §8's worked examples
// (`i.<=`, `i.-`, `i.*`, `f.*`).
var inlineTable = map[string]inlineOp{
	"dup":  inlineDup,
	"drop": inlineDrop,
	"swap": inlineSwap,
	"over": inlineOver,
	"rot":  inlineRot,
	"nip":  inlineNip,
	"tuck": inlineTuck,

	"i.+": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) }),
	"i.-": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) }),
	"i.*": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) }),

	// Overflow semantics (spec §4.8 "Overflow"): integer arithmetic wraps.
	// i./ and i.% are not inlined: they call the runtime's seq_i_s/seq_i__,
	// which push 0 on a zero divisor and push no success flag. i./-flag
	// (seq_i_s__flag) pushes the quotient plus a Bool that is false on a
	// zero divisor.

	"i.=":  cmpInt(enum.IPredEQ),
	"i.<>": cmpInt(enum.IPredNE),
	"i.<":  cmpInt(enum.IPredSLT),
	"i.<=": cmpInt(enum.IPredSLE),
	"i.>":  cmpInt(enum.IPredSGT),
	"i.>=": cmpInt(enum.IPredSGE),

	"f.+": arithFloat(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFAdd(x, y) }),
	"f.-": arithFloat(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFSub(x, y) }),
	"f.*": arithFloat(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFMul(x, y) }),
	"f./": arithFloat(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFDiv(x, y) }),

	"f.=":  cmpFloat(enum.FPredOEQ),
	"f.!=": cmpFloat(enum.FPredONE),
	"f.<":  cmpFloat(enum.FPredOLT),
	"f.<=": cmpFloat(enum.FPredOLE),
	"f.>":  cmpFloat(enum.FPredOGT),
	"f.>=": cmpFloat(enum.FPredOGE),

	"b.and": boolBinOp(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) }),
	"b.or":  boolBinOp(func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) }),
	"b.not": boolUnOp(func(b *ir.Block, x value.Value) value.Value { return b.NewXor(x, i64(1)) }),

	"bit.and": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) }),
	"bit.or":  arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) }),
	"bit.xor": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewXor(x, y) }),
	"bit.shl": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewShl(x, y) }),
	"bit.shr": arithInt(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAShr(x, y) }),
}

func (g *Generator) popTwoInt(b *ir.Block, stackPtr value.Value) (value.Value, value.Value) {
	_, rw := g.emitPop(b, stackPtr)
	_, lw := g.emitPop(b, stackPtr)
	return lw[0], rw[0] // word[0] of an Int slot holds its i64 payload
}

func (g *Generator) popTwoFloat(b *ir.Block, stackPtr value.Value) (value.Value, value.Value) {
	l, r := g.popTwoInt(b, stackPtr)
	return b.NewBitCast(l, types.Double), b.NewBitCast(r, types.Double)
}

func arithInt(op func(b *ir.Block, x, y value.Value) value.Value) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		l, r := g.popTwoInt(b, stackPtr)
		res := op(b, l, r)
		g.emitPush(b, stackPtr, tagFor(stack.KindInt), [4]value.Value{res, nil, nil, nil})
	}
}

func cmpInt(pred enum.IPred) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		l, r := g.popTwoInt(b, stackPtr)
		cmp := b.NewICmp(pred, l, r)
		res := b.NewZExt(cmp, types.I64)
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{res, nil, nil, nil})
	}
}

func arithFloat(op func(b *ir.Block, x, y value.Value) value.Value) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		l, r := g.popTwoFloat(b, stackPtr)
		res := op(b, l, r)
		bits := b.NewBitCast(res, types.I64)
		g.emitPush(b, stackPtr, tagFor(stack.KindFloat), [4]value.Value{bits, nil, nil, nil})
	}
}

func cmpFloat(pred enum.FPred) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		l, r := g.popTwoFloat(b, stackPtr)
		cmp := b.NewFCmp(pred, l, r)
		res := b.NewZExt(cmp, types.I64)
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{res, nil, nil, nil})
	}
}

func boolBinOp(op func(b *ir.Block, x, y value.Value) value.Value) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		l, r := g.popTwoInt(b, stackPtr)
		res := op(b, l, r)
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{res, nil, nil, nil})
	}
}

func boolUnOp(op func(b *ir.Block, x value.Value) value.Value) inlineOp {
	return func(g *Generator, b *ir.Block, stackPtr value.Value) {
		_, w := g.emitPop(b, stackPtr)
		res := op(b, w[0])
		g.emitPush(b, stackPtr, tagFor(stack.KindBool), [4]value.Value{res, nil, nil, nil})
	}
}

// inlineDup duplicates the top slot, bumping its refcount through the
// runtime's tag-dispatching retain helper when it is heap-backed (spec
// §4.8 "Reference counting IR": "dup on a heap-carrying slot emits an
// atomic refcount increment"). The dispatch on tag happens at runtime
// inside seq_retain rather than as a generated branch per kind, the
// "specialized dup-int/dup-heap dispatch" spec allows as an alternative to
// a full per-kind branch tree.
func inlineDup(g *Generator, b *ir.Block, stackPtr value.Value) {
	tag, w := g.emitPop(b, stackPtr)
	g.emitPush(b, stackPtr, tag, w)
	b.NewCall(g.retainFunc(), tag, w[0])
	g.emitPush(b, stackPtr, tag, w)
}

func inlineDrop(g *Generator, b *ir.Block, stackPtr value.Value) {
	tag, w := g.emitPop(b, stackPtr)
	b.NewCall(g.releaseFunc(), tag, w[0])
}

func inlineSwap(g *Generator, b *ir.Block, stackPtr value.Value) {
	a := g.slotPtrAt(b, stackPtr, 0)
	c := g.slotPtrAt(b, stackPtr, 1)
	g.swapSlots(b, a, c)
}

func (g *Generator) swapSlots(b *ir.Block, a, c value.Value) {
	tagA, wA := g.loadSlot(b, a)
	tagC, wC := g.loadSlot(b, c)
	g.storeSlot(b, a, tagC, wC)
	g.storeSlot(b, c, tagA, wA)
}

func inlineOver(g *Generator, b *ir.Block, stackPtr value.Value) {
	tag, w := g.emitPeek(b, stackPtr, 1)
	b.NewCall(g.retainFunc(), tag, w[0])
	g.emitPush(b, stackPtr, tag, w)
}

func inlineRot(g *Generator, b *ir.Block, stackPtr value.Value) {
	p0 := g.slotPtrAt(b, stackPtr, 0)
	p1 := g.slotPtrAt(b, stackPtr, 1)
	p2 := g.slotPtrAt(b, stackPtr, 2)
	t0, w0 := g.loadSlot(b, p0)
	t1, w1 := g.loadSlot(b, p1)
	t2, w2 := g.loadSlot(b, p2)
	// (a b c -- b c a): p2<-t1, p1<-t0, p0<-t2
	g.storeSlot(b, p2, t1, w1)
	g.storeSlot(b, p1, t0, w0)
	g.storeSlot(b, p0, t2, w2)
}

func inlineNip(g *Generator, b *ir.Block, stackPtr value.Value) {
	top, topW := g.emitPop(b, stackPtr)
	second, secondW := g.emitPop(b, stackPtr)
	b.NewCall(g.releaseFunc(), second, secondW[0])
	g.emitPush(b, stackPtr, top, topW)
}

func inlineTuck(g *Generator, b *ir.Block, stackPtr value.Value) {
	inlineSwap(g, b, stackPtr)
	inlineOver(g, b, stackPtr)
}

func (g *Generator) retainFunc() *ir.Func {
	if g.retain == nil {
		g.retain = g.module.NewFunc("seq_retain", types.Void, ir.NewParam("tag", types.I64), ir.NewParam("word", types.I64))
	}
	return g.retain
}

func (g *Generator) releaseFunc() *ir.Func {
	if g.release == nil {
		g.release = g.module.NewFunc("seq_release", types.Void, ir.NewParam("tag", types.I64), ir.NewParam("word", types.I64))
	}
	return g.release
}
