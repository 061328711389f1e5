package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/runtime/stack"
	"github.com/seqlang/seq/internal/symbols"
)

// genIf implements `if ... else ... then` (spec §4.7 "checkIf"): pop the
// Bool, branch, and generate both arms from the same stack pointer (spec
// §4.8 never reassigns it, so no phi is needed for it — only the block
// chain itself may need a merge point). tail is the enclosing word body's
// full tail-position set; markTail already recursed into n.Then/n.Else
// against it, so it is forwarded unchanged rather than recomputed.
func (g *Generator) genIf(fn *ir.Func, b *ir.Block, stackPtr value.Value, n *ast.If, tail map[ast.Statement]bool, trail string) *ir.Block {
	_, w := g.emitPop(b, stackPtr)
	cond := b.NewICmp(enum.IPredNE, w[0], i64(0))

	thenBlock := fn.NewBlock("")
	elseBlock := fn.NewBlock("")
	b.NewCondBr(cond, thenBlock, elseBlock)

	thenFinal := g.genBlock(fn, thenBlock, stackPtr, n.Then, tail, trail+" if-then")
	elseFinal := g.genBlock(fn, elseBlock, stackPtr, n.Else, tail, trail+" if-else")

	if thenFinal == nil && elseFinal == nil {
		// Both arms ended in a musttail ret (spec §4.8 tail-call
		// optimization applies transitively across if/else/then).
		return nil
	}

	merge := fn.NewBlock("")
	if thenFinal != nil {
		thenFinal.NewBr(merge)
	}
	if elseFinal != nil {
		elseFinal.NewBr(merge)
	}
	return merge
}

// genMatch implements `match Tag { ... } -> body ... end` over a Variant
// scrutinee (spec §4.7 "checkMatch"). Variant is heap-backed (internal/
// runtime/stack.Kind's heap list), so its tag isn't available as a compile-
// time constant the way Bool's is for `if`: codegen interns each arm's tag
// name the same way a Symbol literal is interned (literals.go's
// internSymbolFunc) and compares the resulting id against the scrutinee's
// own interned tag id at runtime, chaining arms as a sequence of
// icmp/condbr tests rather than a constant-valued switch. Both of the
// checker's two bind styles (BindStack, BindNamed — internal/checker/
// control.go's checkMatch) resolve to the same thing at this point: push
// the fields named in arm.Names, in that order, looking each one up by
// name against the union's declared field list.
func (g *Generator) genMatch(fn *ir.Func, b *ir.Block, stackPtr value.Value, n *ast.Match, tail map[ast.Statement]bool, trail string) *ir.Block {
	union, ok := g.Table.LookupUnion(n.UnionName)
	if !ok {
		g.errf(n.Sp, "in %s: codegen: unknown union %q", trail, n.UnionName)
		return b
	}

	_, w := g.emitPop(b, stackPtr)
	header := w[0]
	actualTag := b.NewCall(g.variantTagFunc(), header)
	fieldsPtr := b.NewCall(g.variantFieldsFunc(), header)
	b.NewCall(g.releaseFunc(), tagFor(stack.KindVariant), header)

	var armFinals []*ir.Block
	cur := b
	for _, arm := range n.Arms {
		variant, ok := union.VariantOf(arm.Tag)
		if !ok {
			g.errf(arm.Sp, "in %s: codegen: unknown variant %q", trail, arm.Tag)
			continue
		}

		tagPtr, tagLen := g.globalBytes(arm.Tag)
		expectTag := cur.NewCall(g.internSymbolFunc(), tagPtr, tagLen)
		isMatch := cur.NewICmp(enum.IPredEQ, actualTag, expectTag)

		armBlock := fn.NewBlock("")
		nextBlock := fn.NewBlock("")
		cur.NewCondBr(isMatch, armBlock, nextBlock)

		for _, name := range arm.Names {
			idx := fieldIndex(variant, name)
			slotPtr := armBlock.NewGetElementPtr(slotType, fieldsPtr, i64(0), i64(int64(idx)))
			tag, words := g.loadSlot(armBlock, slotPtr)
			armBlock.NewCall(g.retainFunc(), tag, words[0])
			g.emitPush(armBlock, stackPtr, tag, words)
		}

		armFinal := g.genBlock(fn, armBlock, stackPtr, arm.Body, tail, trail+" match "+arm.Tag)
		armFinals = append(armFinals, armFinal)

		cur = nextBlock
	}

	// Exhaustiveness is a hard compile error in the checker (spec §4.7
	// "arms must be exhaustive over the union's declared variants"), so
	// reaching here at runtime is a checker/codegen bug, not a Seq-level
	// failure.
	cur.NewUnreachable()

	live := armFinals[:0]
	for _, a := range armFinals {
		if a != nil {
			live = append(live, a)
		}
	}
	if len(live) == 0 {
		return nil
	}
	merge := fn.NewBlock("")
	for _, a := range live {
		a.NewBr(merge)
	}
	return merge
}

func fieldIndex(variant symbols.Variant, name string) int {
	for i, f := range variant.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// genCond implements `cond [pred] [body] ... end` (spec §4.7 "checkCond"):
// each predicate quotation's body runs inline (never in tail position —
// tailcall.go's markTail only recurses into clause bodies, not predicates)
// against the current stack, leaving a Bool on top; the first true
// predicate's body runs and the rest are skipped. If no predicate is true
// the final fallthrough block branches straight to merge, leaving the stack
// as it was before the cond. checkCond does not type this path: its
// "result == nil" fallback applies only when no clause type-checked.
func (g *Generator) genCond(fn *ir.Func, b *ir.Block, stackPtr value.Value, n *ast.Cond, tail map[ast.Statement]bool, trail string) *ir.Block {
	var bodyFinals []*ir.Block
	cur := b
	for _, clause := range n.Clauses {
		predFinal := g.genBlock(fn, cur, stackPtr, clause.Pred, tail, trail+" cond predicate")
		if predFinal == nil {
			// A predicate can't itself be in tail position, but guard
			// against an unreachable block defensively.
			continue
		}

		_, w := g.emitPop(predFinal, stackPtr)
		cond := predFinal.NewICmp(enum.IPredNE, w[0], i64(0))

		bodyBlock := fn.NewBlock("")
		nextBlock := fn.NewBlock("")
		predFinal.NewCondBr(cond, bodyBlock, nextBlock)

		bodyFinal := g.genBlock(fn, bodyBlock, stackPtr, clause.Body, tail, trail+" cond body")
		bodyFinals = append(bodyFinals, bodyFinal)

		cur = nextBlock
	}

	// No clause matched: stack unchanged, fall through to merge.
	bodyFinals = append(bodyFinals, cur)

	live := bodyFinals[:0]
	for _, a := range bodyFinals {
		if a != nil {
			live = append(live, a)
		}
	}
	if len(live) == 0 {
		return nil
	}
	merge := fn.NewBlock("")
	for _, a := range live {
		a.NewBr(merge)
	}
	return merge
}

// variantTagFunc and variantFieldsFunc take a bare i64 header rather than
// the uniform (stack_ptr) -> stack_ptr shape externFunc builds for the FFI
// catalog (ffi.go), so they're declared directly instead of through it.
func (g *Generator) variantTagFunc() *ir.Func {
	if fn, ok := g.ffiExterns["seq_variant_tag"]; ok {
		return fn
	}
	fn := g.module.NewFunc("seq_variant_tag", types.I64, ir.NewParam("header", types.I64))
	g.ffiExterns["seq_variant_tag"] = fn
	return fn
}

func (g *Generator) variantFieldsFunc() *ir.Func {
	if fn, ok := g.ffiExterns["seq_variant_fields"]; ok {
		return fn
	}
	fn := g.module.NewFunc("seq_variant_fields", types.NewPointer(slotType), ir.NewParam("header", types.I64))
	g.ffiExterns["seq_variant_fields"] = fn
	return fn
}
