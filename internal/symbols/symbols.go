// Package symbols is the global signature environment built by type checker
// pass 1 (spec §4.7 "Pass 1: collect signatures"): every word's declared
// effect, plus constructors generated from union declarations.
package symbols

import (
	"fmt"

	"github.com/seqlang/seq/internal/token"
	"github.com/seqlang/seq/internal/types"
)

// WordSig is a registered word's polymorphic signature: the declared effect
// plus the set of type/row variable names that are free in it and must be
// freshened on every call site (spec §4.7 "freshen its quantified variables").
type WordSig struct {
	Name     string
	Effect   types.Effect
	TypeVars []string
	RowVars  []string
	Def      token.Span // where the word was declared, for collision diagnostics
}

// Variant describes one arm of a union (spec §3 "Union declaration").
type Variant struct {
	Tag    string
	Fields []Field
}

type Field struct {
	Name string
	Type types.Type
}

// Union is a registered union declaration together with the constructor
// word each variant generates (`Make-<Tag>`).
type Union struct {
	Name     string
	Variants []Variant
	Def      token.Span
}

// VariantOf returns the variant with the given tag, or ok=false.
func (u *Union) VariantOf(tag string) (Variant, bool) {
	for _, v := range u.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}

// Table is the global signature environment for one translation unit. All
// word names must be unique across the whole program (spec §4.7 "All word
// names must be unique (error on collision)") — included files share one
// Table (spec §6 "Include system").
type Table struct {
	words   map[string]*WordSig
	unions  map[string]*Union
	// variantOwner maps a variant tag to its union name, so match arms and
	// Make-Tag calls can be resolved without the caller naming the union.
	variantOwner map[string]string
}

func NewTable() *Table {
	return &Table{
		words:        map[string]*WordSig{},
		unions:       map[string]*Union{},
		variantOwner: map[string]string{},
	}
}

// DefineWord registers a word's signature. Returns an error naming both
// definitions' spans if name collides with an existing word or constructor
// (spec §6 "Word-name collisions across included files are errors with
// source locations of both definitions").
func (t *Table) DefineWord(sig *WordSig) error {
	if existing, ok := t.words[sig.Name]; ok {
		return fmt.Errorf("word %q redefined: first declared at %s, again at %s", sig.Name, existing.Def, sig.Def)
	}
	t.words[sig.Name] = sig
	return nil
}

// LookupWord returns the registered signature for name, or ok=false.
func (t *Table) LookupWord(name string) (*WordSig, bool) {
	w, ok := t.words[name]
	return w, ok
}

// DefineUnion registers a union declaration and synthesizes one `Make-Tag`
// constructor word per variant (spec §3 "generates Make-Tag constructors").
func (t *Table) DefineUnion(u *Union) error {
	if _, ok := t.unions[u.Name]; ok {
		return fmt.Errorf("union %q redefined", u.Name)
	}
	t.unions[u.Name] = u

	named := types.Con{Name: u.Name}
	for _, v := range u.Variants {
		if owner, ok := t.variantOwner[v.Tag]; ok {
			return fmt.Errorf("variant tag %q already declared by union %q", v.Tag, owner)
		}
		t.variantOwner[v.Tag] = u.Name

		in := types.StackType(types.SEmpty{})
		rowVar := "ctor_" + v.Tag
		in = types.SRowVar{Name: rowVar}
		for _, f := range v.Fields {
			in = types.SCons{Rest: in, Top: f.Type}
		}
		out := types.SCons{Rest: types.SRowVar{Name: rowVar}, Top: named}

		ctorName := "Make-" + v.Tag
		if err := t.DefineWord(&WordSig{
			Name:     ctorName,
			Effect:   types.Effect{Inputs: in, Outputs: out},
			RowVars:  []string{rowVar},
			Def:      u.Def,
		}); err != nil {
			return err
		}
	}
	return nil
}

// LookupUnion returns the registered union, or ok=false.
func (t *Table) LookupUnion(name string) (*Union, bool) {
	u, ok := t.unions[name]
	return u, ok
}

// UnionOfVariant returns the union declaring the given variant tag.
func (t *Table) UnionOfVariant(tag string) (*Union, bool) {
	name, ok := t.variantOwner[tag]
	if !ok {
		return nil, false
	}
	return t.LookupUnion(name)
}
