// Package codegen translates a type-checked AST into LLVM IR (spec §4.8
// "Code Generator") using github.com/llir/llvm, the same library
// other_examples/ea1011ca_dshills-alas__internal-codegen-llvm.go.go uses to
// turn a Go-resident AST into an *ir.Module: a Generator struct holding the
// module plus lookup tables of already-declared functions, populated in a
// declare-then-define two pass shape (declareFunction/generateFunction
// there, declareWord/defineWord here).
package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/runtime/stack"
)

// slotType is the 40-byte tagged stack slot spec §3 describes: "five 64-bit
// slots (tag, slot1, slot2, slot3, slot4)". The code generator needs this
// layout known statically so inline primitives (spec §4.8 "Inline
// primitives") can emit getelementptr/load/store directly instead of an
// FFI call.
var slotType = types.NewArray(5, types.I64)

// stackStructType is the named LLVM struct backing the single stack-pointer
// value threaded through every generated call (spec §3 "Stack entry": "the
// stack is (base pointer, current index, capacity)"). Codegen never
// reassigns this pointer across control flow: growth reallocates the
// `base` field in place via the runtime's reserve call, so the outer
// pointer stays a single uniform IR value for the whole of a word body,
// matching spec §4.8 "the stack pointer threads through every IR call".
var stackStructType = types.NewStruct(types.NewPointer(slotType), types.I64, types.I64)

var stackPtrType = types.NewPointer(stackStructType)

const (
	fieldBase = 0
	fieldSP   = 1
	fieldCap  = 2
)

// tagFor maps a stack.Kind to the LLVM i64 constant the generator stores in
// a slot's first word, reusing the runtime's own Kind encoding (internal/
// runtime/stack.Kind) so inline IR and the interpreter agree on tag values.
func tagFor(k stack.Kind) *constant.Int {
	return constant.NewInt(types.I64, int64(k))
}

// i64 is a small constant-building convenience used throughout codegen.
func i64(v int64) *constant.Int { return constant.NewInt(types.I64, v) }

// reserveFunc declares the runtime's growth-check entry point
// (`seq_stack_reserve(stack*, i64 n) -> void`), called before every push so
// the contiguous array can double in place (spec §4.1 "Growth is automatic
// (double capacity) and failure-free under adequate memory").
func (g *Generator) reserveFunc() *ir.Func {
	if g.reserve == nil {
		g.reserve = g.module.NewFunc("seq_stack_reserve", types.Void, ir.NewParam("stack", stackPtrType), ir.NewParam("n", types.I64))
	}
	return g.reserve
}

// emitPush writes a 5-word slot (tag plus up to four data words, zero-padded)
// at the stack's current index and increments the index, per spec §4.8
// "Each logical push/pop is a getelementptr into the 40-byte slot array plus
// a load/store of the appropriate slot".
func (g *Generator) emitPush(b *ir.Block, stackPtr value.Value, tag value.Value, words [4]value.Value) {
	b.NewCall(g.reserveFunc(), stackPtr, i64(1))

	basePtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldBase))
	base := b.NewLoad(types.NewPointer(slotType), basePtr)
	spPtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldSP))
	sp := b.NewLoad(types.I64, spPtr)

	slotPtr := b.NewGetElementPtr(slotType, base, i64(0), sp)
	g.storeSlot(b, slotPtr, tag, words)

	newSP := b.NewAdd(sp, i64(1))
	b.NewStore(newSP, spPtr)
}

// emitPop decrements the stack's index and loads the 5-word slot that was
// just above it, returning (tag, words[4]).
func (g *Generator) emitPop(b *ir.Block, stackPtr value.Value) (value.Value, [4]value.Value) {
	basePtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldBase))
	base := b.NewLoad(types.NewPointer(slotType), basePtr)
	spPtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldSP))
	sp := b.NewLoad(types.I64, spPtr)
	newSP := b.NewSub(sp, i64(1))
	b.NewStore(newSP, spPtr)

	slotPtr := b.NewGetElementPtr(slotType, base, i64(0), newSP)
	return g.loadSlot(b, slotPtr)
}

// emitPeek loads the 5-word slot `depth` elements below the top without
// adjusting the stack index (spec §4.1 "peek(stack, depth) -> value").
func (g *Generator) emitPeek(b *ir.Block, stackPtr value.Value, depth int64) (value.Value, [4]value.Value) {
	basePtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldBase))
	base := b.NewLoad(types.NewPointer(slotType), basePtr)
	spPtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldSP))
	sp := b.NewLoad(types.I64, spPtr)
	idx := b.NewSub(sp, i64(1+depth))

	slotPtr := b.NewGetElementPtr(slotType, base, i64(0), idx)
	return g.loadSlot(b, slotPtr)
}

// slotPtrAt returns a pointer to the slot `depth` elements below the top
// (0 = current top) without adjusting the stack's index, for shuffle
// primitives (swap/rot/nip/tuck) that rearrange existing slots in place
// rather than pushing/popping.
func (g *Generator) slotPtrAt(b *ir.Block, stackPtr value.Value, depth int64) value.Value {
	basePtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldBase))
	base := b.NewLoad(types.NewPointer(slotType), basePtr)
	spPtr := b.NewGetElementPtr(stackStructType, stackPtr, i64(0), i64(fieldSP))
	sp := b.NewLoad(types.I64, spPtr)
	idx := b.NewSub(sp, i64(1+depth))
	return b.NewGetElementPtr(slotType, base, i64(0), idx)
}

// copySlot copies the 5-word contents of src into dst.
func (g *Generator) copySlot(b *ir.Block, dst, src value.Value) {
	tag, words := g.loadSlot(b, src)
	g.storeSlot(b, dst, tag, words)
}

func (g *Generator) storeSlot(b *ir.Block, slotPtr value.Value, tag value.Value, words [4]value.Value) {
	tagPtr := b.NewGetElementPtr(slotType, slotPtr, i64(0), i64(0))
	b.NewStore(tag, tagPtr)
	for i, w := range words {
		if w == nil {
			w = i64(0)
		}
		p := b.NewGetElementPtr(slotType, slotPtr, i64(0), i64(int64(i+1)))
		b.NewStore(w, p)
	}
}

func (g *Generator) loadSlot(b *ir.Block, slotPtr value.Value) (value.Value, [4]value.Value) {
	tagPtr := b.NewGetElementPtr(slotType, slotPtr, i64(0), i64(0))
	tag := b.NewLoad(types.I64, tagPtr)
	var words [4]value.Value
	for i := range words {
		p := b.NewGetElementPtr(slotType, slotPtr, i64(0), i64(int64(i+1)))
		words[i] = b.NewLoad(types.I64, p)
	}
	return tag, words
}
