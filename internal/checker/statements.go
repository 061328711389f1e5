package checker

import (
	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/diagnostics"
	"github.com/seqlang/seq/internal/types"
)

// CheckBodies is pass 2 (spec §4.7 "Pass 2: check bodies"): for every
// registered word, check its body starting from the declared input stack
// and unify the result against the declared output stack.
func (c *Checker) CheckBodies(prog *ast.Program) {
	for _, w := range prog.Words {
		c.checkWord(w)
	}
}

func (c *Checker) checkWord(w *ast.Word) {
	sig, ok := c.Table.LookupWord(w.Name)
	if !ok {
		return // pass 1 already reported the collision that prevented registration
	}
	// The declaring word's own effect is used as-is (not freshened): its
	// row/type variables are the ones the body must actually satisfy.
	start := sig.Effect.Inputs
	final := c.checkStmts(w.Body, start, w.Name)
	c.unifyStacks(w.Sp, w.Name, final, sig.Effect.Outputs.Apply(c.subst))
}

// checkStmts threads "current" through a statement list, applying the
// checker's running substitution after every step (spec §4.7 "replace
// current with that").
func (c *Checker) checkStmts(stmts []ast.Statement, current types.StackType, trail string) types.StackType {
	for _, st := range stmts {
		current = c.checkStatement(st, current, trail)
	}
	return current.Apply(c.subst)
}

func (c *Checker) checkStatement(st ast.Statement, current types.StackType, trail string) types.StackType {
	current = current.Apply(c.subst)
	switch n := st.(type) {
	case *ast.LiteralInt:
		return types.SCons{Rest: current, Top: types.Int}
	case *ast.LiteralFloat:
		return types.SCons{Rest: current, Top: types.Float}
	case *ast.LiteralBool:
		return types.SCons{Rest: current, Top: types.Bool}
	case *ast.LiteralString:
		return types.SCons{Rest: current, Top: types.String}
	case *ast.LiteralSymbol:
		return types.SCons{Rest: current, Top: types.Symbol}

	case *ast.WordCall:
		return c.checkWordCall(n, current, trail)

	case *ast.Quotation:
		return c.checkQuotation(n, current, trail)

	case *ast.If:
		return c.checkIf(n, current, trail)

	case *ast.Match:
		return c.checkMatch(n, current, trail)

	case *ast.Cond:
		return c.checkCond(n, current, trail)

	default:
		c.Errors.Addf(diagnostics.ErrBadEffect, st.Span(), "in %s: unhandled statement %T", trail, st)
		return current
	}
}

// checkWordCall resolves a call by name: special syntax-level cases for
// `pick`/`roll` with a literal index, `strand.spawn`'s polymorphic
// quotation operand, and `call`'s dynamic dispatch (spec §4.7 "Special
// cases"), then the general path of looking up, freshening, and unifying a
// registered signature.
func (c *Checker) checkWordCall(n *ast.WordCall, current types.StackType, trail string) types.StackType {
	switch n.Name {
	case "pick":
		if n.LiteralArgSet {
			return c.checkPickLiteral(n, current, trail)
		}
	case "roll":
		if n.LiteralArgSet {
			return c.checkRollLiteral(n, current, trail)
		}
	case "strand.spawn":
		return c.checkSpawn(n, current, trail)
	case "call":
		return c.checkCall(n, current, trail)
	}

	sig, ok := c.Table.LookupWord(n.Name)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnknownWord, n.Sp, "in %s: unknown word %q", trail, n.Name)
		return current
	}
	eff := c.instantiate(sig)
	if !c.unifyStacks(n.Sp, trail, current, eff.Inputs) {
		return current
	}
	return eff.Outputs.Apply(c.subst)
}

// checkPickLiteral computes the precise effect of `N pick` for a literal N:
// it reaches N elements into the stack-type and duplicates that element on
// top (spec §4.7 "the type checker uses the literal to compute the precise
// effect").
func (c *Checker) checkPickLiteral(n *ast.WordCall, current types.StackType, trail string) types.StackType {
	depth := *n.LiteralArg
	// The literal integer itself was already pushed onto `current` by the
	// preceding LiteralInt statement; pop it before reaching into the stack.
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: pick requires a literal depth on top", trail)
		return current
	}
	base := cons.Rest
	t, ok := nthFromTop(base, int(depth))
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: pick %d reaches past the bottom of the stack", trail, depth)
		return current
	}
	return types.SCons{Rest: base, Top: t}
}

// checkRollLiteral computes the effect of `N roll` for a literal N: it
// rotates the Nth element to the top, leaving the rest shifted down.
func (c *Checker) checkRollLiteral(n *ast.WordCall, current types.StackType, trail string) types.StackType {
	depth := *n.LiteralArg
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: roll requires a literal depth on top", trail)
		return current
	}
	base := cons.Rest
	newBase, t, ok := removeNthFromTop(base, int(depth))
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: roll %d reaches past the bottom of the stack", trail, depth)
		return current
	}
	return types.SCons{Rest: newBase, Top: t}
}

// nthFromTop returns the type of the element `depth` positions below the
// top of st (0 = the current top), without modifying st.
func nthFromTop(st types.StackType, depth int) (types.Type, bool) {
	for i := 0; i < depth; i++ {
		cons, ok := st.(types.SCons)
		if !ok {
			return nil, false
		}
		st = cons.Rest
	}
	cons, ok := st.(types.SCons)
	if !ok {
		return nil, false
	}
	return cons.Top, true
}

// removeNthFromTop returns st with the element `depth` positions below the
// top removed, plus that element's type.
func removeNthFromTop(st types.StackType, depth int) (types.StackType, types.Type, bool) {
	if depth == 0 {
		cons, ok := st.(types.SCons)
		if !ok {
			return st, nil, false
		}
		return cons.Rest, cons.Top, true
	}
	cons, ok := st.(types.SCons)
	if !ok {
		return st, nil, false
	}
	rest, removed, ok := removeNthFromTop(cons.Rest, depth-1)
	if !ok {
		return st, nil, false
	}
	return types.SCons{Rest: rest, Top: cons.Top}, removed, true
}

// checkSpawn types `strand.spawn`: it accepts any Quotation or Closure and
// returns an Int strand handle (spec §4.7 "spawn is polymorphic in the
// quotation's effect").
func (c *Checker) checkSpawn(n *ast.WordCall, current types.StackType, trail string) types.StackType {
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: strand.spawn needs a quotation or closure on top", trail)
		return current
	}
	switch cons.Top.(type) {
	case types.Quotation, types.Closure:
	default:
		c.Errors.Addf(diagnostics.ErrUnifyMismatch, n.Sp, "in %s: strand.spawn expects a quotation or closure, got %s", trail, cons.Top)
	}
	return types.SCons{Rest: cons.Rest, Top: types.Int}
}

// checkCall types `call`: it pops a Quotation or Closure and applies its own
// declared effect to the rest of the stack (spec §8 scenario: "for any
// quotation q typed Effect(i,o), call q applied to stack i′ ... produces
// o′"; spec §9 names call as one of the two dynamic-dispatch sites). The
// popped value's effect is used as-is, not freshened — it is a single
// runtime value, not a reusable signature the way a registered word is.
func (c *Checker) checkCall(n *ast.WordCall, current types.StackType, trail string) types.StackType {
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: call needs a quotation or closure on top", trail)
		return current
	}
	var eff types.Effect
	switch t := cons.Top.(type) {
	case types.Quotation:
		eff = t.Effect
	case types.Closure:
		eff = t.Effect
	default:
		c.Errors.Addf(diagnostics.ErrUnifyMismatch, n.Sp, "in %s: call expects a quotation or closure, got %s", trail, cons.Top)
		return current
	}
	if !c.unifyStacks(n.Sp, trail, cons.Rest, eff.Inputs) {
		return current
	}
	return eff.Outputs.Apply(c.subst)
}
