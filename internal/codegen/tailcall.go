package codegen

import "github.com/seqlang/seq/internal/ast"

// tailPositions computes the set of statements in tail position within a
// word body (spec §4.8 "Tail-call optimization"): "the last statement of a
// word body or the last statement of every arm of a conditional/match whose
// containing construct is in tail position ... applies transitively across
// if/else/then, match, and cond." Marked statements get `musttail call`
// treatment in calls.go when they are a recursive (or any statically
// resolved) word call.
func tailPositions(body []ast.Statement) map[ast.Statement]bool {
	tail := map[ast.Statement]bool{}
	markTail(body, tail)
	return tail
}

// markTail marks the last statement of stmts as tail (if stmts is
// non-empty) and recurses into it when it is a control construct, since a
// construct in tail position passes tail-ness down to each of its arms'
// last statements.
func markTail(stmts []ast.Statement, tail map[ast.Statement]bool) {
	if len(stmts) == 0 {
		return
	}
	last := stmts[len(stmts)-1]
	tail[last] = true
	switch n := last.(type) {
	case *ast.If:
		markTail(n.Then, tail)
		markTail(n.Else, tail)
	case *ast.Match:
		for _, arm := range n.Arms {
			markTail(arm.Body, tail)
		}
	case *ast.Cond:
		for _, cl := range n.Clauses {
			markTail(cl.Body, tail)
		}
	}
}
