package checker

import (
	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/diagnostics"
	"github.com/seqlang/seq/internal/types"
)

// checkQuotation type-checks a `[ ... ]` literal (spec §4.7 "Quotation" and
// "Closure construction"). A plain quotation's body is checked from a fresh
// row tail; a capturing quotation additionally pops its captured values off
// the enclosing stack and seeds the body's initial stack with them, since at
// runtime the generated trampoline loads env values and pushes them before
// running the body (spec §4.8 "Closures").
func (c *Checker) checkQuotation(n *ast.Quotation, current types.StackType, trail string) types.StackType {
	fresh := c.freshRowVar()
	bodyStart := types.StackType(fresh)

	if len(n.Captures) > 0 {
		envTypes := make([]types.Type, len(n.Captures))
		for i := len(n.Captures) - 1; i >= 0; i-- {
			cons, ok := current.(types.SCons)
			if !ok {
				c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: not enough values to capture %q", trail, n.Captures[i])
				return current
			}
			envTypes[i] = cons.Top
			current = cons.Rest
		}
		for _, t := range envTypes {
			bodyStart = types.SCons{Rest: bodyStart, Top: t}
		}
	}

	bodyEnd := c.checkStmts(n.Body, bodyStart, trail+" quotation")
	eff := types.Effect{Inputs: fresh.Apply(c.subst), Outputs: bodyEnd}
	c.Typed[n] = eff

	var pushed types.Type
	if len(n.Captures) > 0 {
		pushed = types.Closure{Effect: eff}
	} else {
		pushed = types.Quotation{Effect: eff}
	}
	return types.SCons{Rest: current, Top: pushed}
}

// checkIf type-checks `if ... else ... then` (spec §4.7): unify the top
// with Bool, pop it, check both branches from that state, and unify their
// resulting stacks.
func (c *Checker) checkIf(n *ast.If, current types.StackType, trail string) types.StackType {
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: if requires a Bool on top", trail)
		return current
	}
	if !c.unifyTypes(n.Sp, trail, cons.Top, types.Bool) {
		return current
	}
	base := cons.Rest.Apply(c.subst)

	thenEnd := c.checkStmts(n.Then, base, trail+" then")
	elseEnd := c.checkStmts(n.Else, base.Apply(c.subst), trail+" else")
	if !c.unifyStacks(n.Sp, trail, thenEnd, elseEnd) {
		return thenEnd
	}
	return thenEnd.Apply(c.subst)
}

// checkMatch type-checks `match Tag { binds } -> body ... end` (spec §4.7
// "match"): the scrutinee must unify to the declared union; each arm binds
// its variant's fields (by position or by name) and is checked from there;
// arms must be exhaustive over the union's declared variants, and every
// arm's resulting stack must unify.
func (c *Checker) checkMatch(n *ast.Match, current types.StackType, trail string) types.StackType {
	cons, ok := current.(types.SCons)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnderflow, n.Sp, "in %s: match requires a value on top", trail)
		return current
	}

	union, ok := c.Table.LookupUnion(n.UnionName)
	if !ok {
		c.Errors.Addf(diagnostics.ErrUnknownWord, n.Sp, "in %s: unknown union %q", trail, n.UnionName)
		return current
	}
	if !c.unifyTypes(n.Sp, trail, cons.Top, types.Con{Name: union.Name}) {
		return current
	}
	base := cons.Rest.Apply(c.subst)

	seen := map[string]bool{}
	var result types.StackType
	for _, arm := range n.Arms {
		variant, ok := union.VariantOf(arm.Tag)
		if !ok {
			c.Errors.Addf(diagnostics.ErrUnknownWord, arm.Sp, "in %s: union %q has no variant %q", trail, union.Name, arm.Tag)
			continue
		}
		seen[arm.Tag] = true

		armStart := base
		for _, name := range arm.Names {
			var ft types.Type
			for _, f := range variant.Fields {
				if f.Name == name {
					ft = f.Type
					break
				}
			}
			if ft == nil {
				c.Errors.Addf(diagnostics.ErrUnknownWord, arm.Sp, "in %s: variant %q has no field %q", trail, arm.Tag, name)
				continue
			}
			armStart = types.SCons{Rest: armStart, Top: ft}
		}

		armEnd := c.checkStmts(arm.Body, armStart, trail+" match "+arm.Tag)
		if result == nil {
			result = armEnd
			continue
		}
		if !c.unifyStacks(arm.Sp, trail, result, armEnd) {
			continue
		}
		result = result.Apply(c.subst)
	}

	for _, v := range union.Variants {
		if !seen[v.Tag] {
			c.Errors.Addf(diagnostics.ErrNonExhaustive, n.Sp, "in %s: match over %q is missing variant %q", trail, union.Name, v.Tag)
		}
	}

	if result == nil {
		return base
	}
	return result
}

// checkCond type-checks `cond [pred] [body] ... end` (spec §4.7 "cond"):
// each predicate must leave a Bool on top of an unchanged stack; each body
// runs from the same starting stack (not the predicate's, since the
// predicate's only observable effect is the Bool) and all bodies must
// produce the same output stack.
func (c *Checker) checkCond(n *ast.Cond, current types.StackType, trail string) types.StackType {
	var result types.StackType
	for _, clause := range n.Clauses {
		predEnd := c.checkStmts(clause.Pred, current, trail+" cond predicate")
		want := types.SCons{Rest: current.Apply(c.subst), Top: types.Bool}
		if !c.unifyStacks(n.Sp, trail, predEnd, want) {
			continue
		}

		bodyEnd := c.checkStmts(clause.Body, current.Apply(c.subst), trail+" cond body")
		if result == nil {
			result = bodyEnd
			continue
		}
		if !c.unifyStacks(n.Sp, trail, result, bodyEnd) {
			continue
		}
		result = result.Apply(c.subst)
	}
	if result == nil {
		return current
	}
	return result
}
