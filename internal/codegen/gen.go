package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/seqlang/seq/internal/ast"
)

// genBlock walks stmts, threading the current basic block (control
// constructs may end one block and start another) and the single stack
// pointer value (never reassigned — spec §4.8 "the stack pointer threads
// through every IR call"). Returns nil once a musttail return has been
// emitted, signaling the caller that the block chain is already
// terminated and no further statements should be generated (a musttail
// call must be a word body's final instruction before its `ret`).
func (g *Generator) genBlock(fn *ir.Func, cur *ir.Block, stackPtr value.Value, stmts []ast.Statement, tail map[ast.Statement]bool, trail string) *ir.Block {
	for _, st := range stmts {
		cur = g.genStmt(fn, cur, stackPtr, st, tail, trail)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// genStmt dispatches one statement. tail is the whole word body's
// precomputed tail-position set (tailcall.go's markTail already recursed
// into if/match/cond arms against this same map), so control constructs
// forward it unchanged to genBlock for their nested bodies rather than
// recomputing it.
func (g *Generator) genStmt(fn *ir.Func, b *ir.Block, stackPtr value.Value, st ast.Statement, tail map[ast.Statement]bool, trail string) *ir.Block {
	isTail := tail[st]
	switch n := st.(type) {
	case *ast.LiteralInt, *ast.LiteralFloat, *ast.LiteralBool, *ast.LiteralString, *ast.LiteralSymbol:
		g.genLiteral(b, stackPtr, st)
		return b

	case *ast.WordCall:
		return g.genWordCall(fn, b, stackPtr, n, isTail, trail)

	case *ast.Quotation:
		g.genQuotationLiteral(fn, b, stackPtr, n, trail)
		return b

	case *ast.If:
		return g.genIf(fn, b, stackPtr, n, tail, trail)

	case *ast.Match:
		return g.genMatch(fn, b, stackPtr, n, tail, trail)

	case *ast.Cond:
		return g.genCond(fn, b, stackPtr, n, tail, trail)

	default:
		g.errf(st.Span(), "in %s: codegen: unhandled statement %T", trail, st)
		return b
	}
}
