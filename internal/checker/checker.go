// Package checker implements the bidirectional stack-effect type checker
// (spec §4.7): pass 1 collects every word's declared signature, pass 2 walks
// each word body threading a "current" stack type through statements via
// unification against the global substitution.
package checker

import (
	"fmt"

	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/diagnostics"
	"github.com/seqlang/seq/internal/symbols"
	"github.com/seqlang/seq/internal/token"
	"github.com/seqlang/seq/internal/types"
	"github.com/seqlang/seq/internal/unify"
)

// Checker holds the shared state for one translation unit: the signature
// table, a running substitution, and a fresh-variable counter (mirrors the
// teacher's InferenceContext.counter / FreshVar pattern).
type Checker struct {
	Table   *symbols.Table
	Errors  diagnostics.Bag
	counter int
	subst   types.Subst

	// Typed records the inferred effect of each quotation/closure literal,
	// keyed by pointer identity, for the code generator to consume (spec
	// §4.8 needs to know a quotation's captured-free effect to emit its
	// trampoline signature).
	Typed map[*ast.Quotation]types.Effect
}

func New(table *symbols.Table) *Checker {
	return &Checker{
		Table: table,
		subst: types.Empty(),
		Typed: map[*ast.Quotation]types.Effect{},
	}
}

func (c *Checker) freshTypeVar() types.Var {
	c.counter++
	return types.Var{Name: fmt.Sprintf("t%d", c.counter)}
}

func (c *Checker) freshRowVar() types.SRowVar {
	c.counter++
	return types.SRowVar{Name: fmt.Sprintf("r%d", c.counter)}
}

// unifyTypes unifies a and b under the checker's running substitution,
// recording a diagnostic and returning ok=false on failure.
func (c *Checker) unifyTypes(sp token.Span, trail string, a, b types.Type) bool {
	s, err := unify.Types(c.subst, a, b)
	if err != nil {
		c.Errors.Addf(diagnostics.ErrUnifyMismatch, sp, "in %s: %s", trail, err)
		return false
	}
	c.subst = s
	return true
}

// unifyStacks unifies two stack types, classifying the unify.Error kind into
// the matching diagnostics.Code (spec §4.6 "a typed error").
func (c *Checker) unifyStacks(sp token.Span, trail string, a, b types.StackType) bool {
	s, err := unify.Stacks(c.subst, a, b)
	if err != nil {
		code := diagnostics.ErrUnifyMismatch
		if ue, ok := err.(*unify.Error); ok {
			switch ue.Kind {
			case "underflow":
				code = diagnostics.ErrUnderflow
			case "occurs":
				code = diagnostics.ErrUnifyOccurs
			}
		}
		c.Errors.Addf(code, sp, "in %s: %s", trail, err)
		return false
	}
	c.subst = s
	return true
}
