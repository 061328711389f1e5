package checker

import (
	"github.com/seqlang/seq/internal/ast"
	"github.com/seqlang/seq/internal/diagnostics"
	"github.com/seqlang/seq/internal/symbols"
	"github.com/seqlang/seq/internal/types"
)

// CollectSignatures is pass 1 (spec §4.7): register every union's
// constructors, then every word's normalized effect. All word and
// constructor names must be unique; collisions are collected as diagnostics
// rather than aborting immediately, so a single `seqc build` reports every
// problem in one pass.
func (c *Checker) CollectSignatures(prog *ast.Program) {
	for _, u := range prog.Unions {
		su := &symbols.Union{Name: u.Name, Def: u.Sp}
		for _, v := range u.Variants {
			sv := symbols.Variant{Tag: v.Tag}
			for _, f := range v.Fields {
				sv.Fields = append(sv.Fields, symbols.Field{Name: f.Name, Type: resolveType(f.Type)})
			}
			su.Variants = append(su.Variants, sv)
		}
		if err := c.Table.DefineUnion(su); err != nil {
			c.Errors.Addf(diagnostics.ErrDuplicateWord, u.Sp, "%s", err)
		}
	}

	for _, w := range prog.Words {
		eff, typeVars, rowVars := resolveEffect(w.DeclaredEffect)
		sig := &symbols.WordSig{
			Name:     w.Name,
			Effect:   eff,
			TypeVars: typeVars,
			RowVars:  rowVars,
			Def:      w.Sp,
		}
		if err := c.Table.DefineWord(sig); err != nil {
			c.Errors.Addf(diagnostics.ErrDuplicateWord, w.Sp, "%s", err)
		}
	}
}

// instantiate freshens every quantified type/row variable in sig's effect,
// producing a substitution-free copy private to this call site (spec §4.7
// "freshen its quantified variables"). Returns the freshened effect only;
// the caller unifies it against the live Checker substitution separately.
func (c *Checker) instantiate(sig *symbols.WordSig) types.Effect {
	s := types.Empty()
	for _, tv := range sig.TypeVars {
		s = s.BindType(tv, c.freshTypeVar())
	}
	for _, rv := range sig.RowVars {
		s = s.BindRow(rv, c.freshRowVar())
	}
	return sig.Effect.Apply(s)
}
