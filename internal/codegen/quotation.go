package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/runtime/stack"
)

// wrapperFuncType is the uniform signature every quotation/closure wrapper
// shares (spec §4.8 "Closures": "the wrapper exists to offer a uniform
// calling shape when the quotation appears as a closure"): the stack
// pointer, plus a generic (env pointer, env length) pair that a plain
// quotation's wrapper simply ignores.
var wrapperFuncType = types.NewFunc(stackPtrType, stackPtrType, types.I64, types.I64)
var wrapperFuncPtrType = types.NewPointer(wrapperFuncType)

// genQuotationLiteral emits the fresh impl function for a `[ ... ]` literal
// (spec §4.8 "For each [ ... ], emit a fresh function of the quotation
// signature"), its wrapper, and — for a capturing quotation — the
// construction-site IR that pops captured values into a runtime-allocated
// environment and allocates the refcounted Closure header (spec §4.8
// "Closures": "At the construction site, emit IR to pop captured values,
// allocate an environment slice, initialize it, and push a Closure value").
func (g *Generator) genQuotationLiteral(fn *ir.Func, b *ir.Block, stackPtr value.Value, n *ast.Quotation, trail string) {
	g.qcounter++
	baseName := fmt.Sprintf("%s_q%d", mangleWord(trail), g.qcounter)

	impl := g.module.NewFunc(baseName+"_impl", stackPtrType, ir.NewParam("stack", stackPtrType))
	implEntry := impl.NewBlock("entry")

	nCaptures := len(n.Captures)
	if nCaptures > 0 {
		// The impl function's body runs after the wrapper has pushed the
		// captured values (spec: "loads captured values from env, pushes
		// them, then executes the body"); codegen doesn't need to
		// distinguish captured pushes from ordinary ones once they're on
		// the stack, so implEntry's body generation is identical to the
		// plain-quotation case below.
	}

	tail := tailPositions(n.Body)
	final := g.genBlock(impl, implEntry, impl.Params[0], n.Body, tail, baseName)
	if final != nil {
		final.NewRet(impl.Params[0])
	}

	wrapper := g.module.NewFunc(baseName+"_wrap", stackPtrType,
		ir.NewParam("stack", stackPtrType), ir.NewParam("env", types.I64), ir.NewParam("envlen", types.I64))
	wEntry := wrapper.NewBlock("entry")
	wStack := wrapper.Params[0]

	if nCaptures > 0 {
		envArrPtr := wEntry.NewIntToPtr(wrapper.Params[1], types.NewPointer(slotType))
		for i := 0; i < nCaptures; i++ {
			slotPtr := wEntry.NewGetElementPtr(slotType, envArrPtr, i64(0), i64(int64(i)))
			tag, words := g.loadSlot(wEntry, slotPtr)
			wEntry.NewCall(g.retainFunc(), tag, words[0])
			g.emitPush(wEntry, wStack, tag, words)
		}
	}
	implCall := wEntry.NewCall(impl, wStack)
	implCall.Tail = enum.TailCallKindMustTail
	wEntry.NewRet(implCall)

	g.quotations[n] = &quotationFuncs{wrapper: wrapper, impl: impl}

	if nCaptures == 0 {
		implPtr := b.NewPtrToInt(impl, types.I64)
		wrapperPtr := b.NewPtrToInt(wrapper, types.I64)
		g.emitPush(b, stackPtr, tagFor(stack.KindQuotation), [4]value.Value{wrapperPtr, implPtr, nil, nil})
		return
	}

	// Capturing quotation: pop the N captured values (checker already
	// validated their types during capture analysis) into a freshly
	// allocated environment, then allocate the refcounted Closure header.
	envArr := b.NewCall(g.envAllocFunc(), i64(int64(nCaptures)))
	for i := nCaptures - 1; i >= 0; i-- {
		tag, words := g.emitPop(b, stackPtr)
		slotPtr := b.NewGetElementPtr(slotType, envArr, i64(0), i64(int64(i)))
		g.storeSlot(b, slotPtr, tag, words)
	}
	envWord := b.NewPtrToInt(envArr, types.I64)
	wrapperPtr := b.NewPtrToInt(wrapper, types.I64)
	header := b.NewCall(g.closureNewFunc(), wrapperPtr, envWord, i64(int64(nCaptures)))
	g.emitPush(b, stackPtr, tagFor(stack.KindClosure), [4]value.Value{header, nil, nil, nil})
}

func (g *Generator) envAllocFunc() *ir.Func {
	if g.envAlloc == nil {
		g.envAlloc = g.module.NewFunc("seq_env_alloc", types.NewPointer(slotType), ir.NewParam("n", types.I64))
	}
	return g.envAlloc
}

func (g *Generator) closureNewFunc() *ir.Func {
	if g.closureNew == nil {
		g.closureNew = g.module.NewFunc("seq_closure_new", types.I64,
			ir.NewParam("wrapper", types.I64), ir.NewParam("env", types.I64), ir.NewParam("envlen", types.I64))
	}
	return g.closureNew
}

func (g *Generator) closureWrapperFunc() *ir.Func {
	if g.closureWrapper == nil {
		g.closureWrapper = g.module.NewFunc("seq_closure_wrapper", types.I64, ir.NewParam("header", types.I64))
	}
	return g.closureWrapper
}

func (g *Generator) closureEnvFunc() *ir.Func {
	if g.closureEnv == nil {
		g.closureEnv = g.module.NewFunc("seq_closure_env", types.I64, ir.NewParam("header", types.I64))
	}
	return g.closureEnv
}

func (g *Generator) closureEnvLenFunc() *ir.Func {
	if g.closureEnvLen == nil {
		g.closureEnvLen = g.module.NewFunc("seq_closure_envlen", types.I64, ir.NewParam("header", types.I64))
	}
	return g.closureEnvLen
}
