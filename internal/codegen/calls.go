package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// genWordCall dispatches a call by name to one of five lowering strategies,
// in the order spec §4.7/§4.8 imply: inline primitives first (cheapest),
// then the two syntax-level special forms the checker also special-cases
// (spawn's polymorphic quotation operand; `call`'s dynamic dispatch — spec
// §9 "call and cond are the only dynamic-dispatch sites at runtime"), then
// a statically resolved Seq word (direct call, musttail-eligible), then a
// function declared by a loaded FFI manifest, and finally the flat FFI
// primitive catalog (spec §4.4).
func (g *Generator) genWordCall(fn *ir.Func, b *ir.Block, stackPtr value.Value, n *ast.WordCall, isTail bool, trail string) *ir.Block {
	if op, ok := inlineTable[n.Name]; ok {
		op(g, b, stackPtr)
		return b
	}

	switch n.Name {
	case "call":
		return g.genDynamicCall(fn, b, stackPtr, isTail)
	case "strand.spawn":
		g.genSpawn(b, stackPtr)
		return b
	}

	if callee, ok := g.words[n.Name]; ok {
		return g.genStaticCall(b, stackPtr, callee, isTail)
	}

	if spec, ok := g.manifestFuncs[n.Name]; ok {
		g.genManifestCall(b, stackPtr, spec)
		return b
	}

	// Fall through to the FFI catalog (spec §4.4): strings, variants, maps,
	// I/O, TCP, crypto, compression, HTTP, regex, OS, terminal, time, and
	// the pick/roll/Make-Tag constructors the checker resolved structurally
	// rather than against a user word declaration.
	g.genFFICall(b, stackPtr, n.Name)
	return b
}

// genStaticCall emits a direct call to a known word's function. In tail
// position it is `musttail call` immediately followed by `ret` (spec §4.8
// "Tail-call optimization": "LLVM guarantees the frame is reused
// (compilation fails loudly if it cannot)"); LLVM's musttail verifier
// requires the call's result type to match the caller's return type
// exactly, which holds here because every word shares the uniform
// `(ptr) -> ptr` signature (spec §4.8 "Mutual recursion benefits
// automatically because all Seq words share the same (ptr) -> ptr
// signature").
func (g *Generator) genStaticCall(b *ir.Block, stackPtr value.Value, callee *ir.Func, isTail bool) *ir.Block {
	call := b.NewCall(callee, stackPtr)
	if isTail {
		call.Tail = enum.TailCallKindMustTail
		b.NewRet(call)
		return nil
	}
	return b
}

// genDynamicCall implements the `call` word: pop the top value, dispatch on
// its tag (Quotation vs Closure — spec §9's two dynamic-dispatch sites,
// along with cond's predicate test which is ordinary inline IR), and
// invoke the appropriate function pointer field. Quotation carries
// (wrapper, impl) pointers (spec §3); `call` always enters through the
// wrapper so a quotation and a closure present the same invocation shape
// to the caller (spec §4.8 "The wrapper exists to offer a uniform calling
// shape when the quotation appears as a closure").
func (g *Generator) genDynamicCall(fn *ir.Func, b *ir.Block, stackPtr value.Value, isTail bool) *ir.Block {
	tag, w := g.emitPop(b, stackPtr)
	isClosure := b.NewICmp(enum.IPredEQ, tag, tagFor(stack.KindClosure))

	quotBlock := fn.NewBlock("")
	closBlock := fn.NewBlock("")
	mergeBlock := fn.NewBlock("")
	b.NewCondBr(isClosure, closBlock, quotBlock)

	// Plain quotation: word[0] is the wrapper pointer directly, no
	// environment (spec §3 "Quotation { wrapper_fn_ptr, impl_fn_ptr }").
	quotWrapper := w[0]
	quotBlock.NewBr(mergeBlock)

	// Closure: word[0] is a refcounted header; fetch its wrapper/env/envlen
	// through the runtime accessors (spec §9: dispatch on tag is the
	// dynamic part, the header layout itself stays opaque to generated IR).
	closWrapper := closBlock.NewCall(g.closureWrapperFunc(), w[0])
	closEnv := closBlock.NewCall(g.closureEnvFunc(), w[0])
	closEnvLen := closBlock.NewCall(g.closureEnvLenFunc(), w[0])
	closBlock.NewBr(mergeBlock)

	wrapperWord := mergeBlock.NewPhi(ir.NewIncoming(quotWrapper, quotBlock), ir.NewIncoming(closWrapper, closBlock))
	envWord := mergeBlock.NewPhi(ir.NewIncoming(i64(0), quotBlock), ir.NewIncoming(closEnv, closBlock))
	envLenWord := mergeBlock.NewPhi(ir.NewIncoming(i64(0), quotBlock), ir.NewIncoming(closEnvLen, closBlock))

	wrapperPtr := mergeBlock.NewIntToPtr(wrapperWord, wrapperFuncPtrType)
	call := mergeBlock.NewCall(wrapperPtr, stackPtr, envWord, envLenWord)
	if isTail {
		call.Tail = enum.TailCallKindMustTail
		mergeBlock.NewRet(call)
		return nil
	}
	return mergeBlock
}

// genSpawn implements `strand.spawn`: pop the quotation/closure, hand it to
// the scheduler's FFI entry point, and push the returned strand handle
// (spec §4.3 "strand.spawn(quotation) -> strand_id").
func (g *Generator) genSpawn(b *ir.Block, stackPtr value.Value) {
	b.NewCall(g.externFunc("seq_strand_spawn", 1), stackPtr)
}
